package analytics

import "datachat/internal/dhis"

// BuildQuery composes the three resolved dimensions into an analytics
// request description. Stateless; validation happens in the resolvers.
func BuildQuery(items []string, periods []string, orgUnit string) dhis.AnalyticsQuery {
	return dhis.AnalyticsQuery{
		DX: items,
		PE: periods,
		OU: orgUnit,
	}
}
