package analytics

import (
	"context"
	"strings"

	"datachat/internal/dhis"

	"github.com/rs/zerolog/log"
)

// Special org-unit tokens understood by the analytics API. The server
// expands them against the requesting user's assigned units.
const (
	TokenUserOrgUnit              = "USER_ORGUNIT"
	TokenUserOrgUnitChildren      = "USER_ORGUNIT_CHILDREN"
	TokenUserOrgUnitGrandchildren = "USER_ORGUNIT_GRANDCHILDREN"
)

// OrgUnitSelection is the caller's organisation unit choice: either a
// concrete unit or one of the special tokens, plus the child-expansion flag.
type OrgUnitSelection struct {
	Unit            *dhis.OrgUnit `json:"unit,omitempty"`
	Token           string        `json:"token,omitempty"`
	IncludeChildren bool          `json:"includeChildren"`
}

// OrgUnitResolution is the resolved ou query dimension. MultiOrgUnit tells
// downstream projections to expect multiple ou values in the response;
// Children is populated only for client-side child expansion.
type OrgUnitResolution struct {
	Dimension    string         `json:"dimension"`
	MultiOrgUnit bool           `json:"multiOrgUnit"`
	Children     []dhis.OrgUnit `json:"children,omitempty"`
}

// MetadataClient is the org-unit metadata collaborator: child listing for
// expansion and the current user's assigned units for the USER_ORGUNIT token.
type MetadataClient interface {
	ChildOrgUnits(ctx context.Context, unitID string) ([]dhis.OrgUnit, error)
	Me(ctx context.Context) (*dhis.User, error)
}

// ResolveOrgUnit turns an org unit selection into a concrete ou dimension.
//
// A concrete unit with IncludeChildren set triggers one metadata call; when
// the unit has children the dimension becomes the ;-joined child id list and
// comparative mode is flagged. A childless unit degrades silently to
// single-unit mode. USER_ORGUNIT with IncludeChildren resolves the user's
// assigned unit first and then expands the same way. The CHILDREN and
// GRANDCHILDREN tokens expand server-side, so comparative mode is inferred
// from the token alone.
func ResolveOrgUnit(ctx context.Context, sel OrgUnitSelection, client MetadataClient) (OrgUnitResolution, error) {
	switch sel.Token {
	case TokenUserOrgUnit:
		if !sel.IncludeChildren {
			return OrgUnitResolution{Dimension: TokenUserOrgUnit}, nil
		}
		user, err := client.Me(ctx)
		if err != nil {
			return OrgUnitResolution{}, err
		}
		if len(user.OrgUnits) == 0 {
			log.Warn().Msg("User has no assigned org units, degrading to the USER_ORGUNIT token")
			return OrgUnitResolution{Dimension: TokenUserOrgUnit}, nil
		}
		return expandChildren(ctx, client, user.OrgUnits[0].ID)
	case TokenUserOrgUnitChildren, TokenUserOrgUnitGrandchildren:
		return OrgUnitResolution{Dimension: sel.Token, MultiOrgUnit: true}, nil
	}

	if sel.Token != "" {
		return OrgUnitResolution{}, &InvalidSelectionError{
			Dimension: "ou",
			Detail:    "unknown org unit token " + sel.Token,
		}
	}

	if sel.Unit == nil || sel.Unit.ID == "" {
		return OrgUnitResolution{}, &InvalidSelectionError{
			Dimension: "ou",
			Detail:    "no organisation unit selected",
		}
	}

	if !sel.IncludeChildren {
		return OrgUnitResolution{Dimension: sel.Unit.ID}, nil
	}

	return expandChildren(ctx, client, sel.Unit.ID)
}

// expandChildren fetches a unit's direct children and resolves to
// comparative mode over them, or degrades to the unit itself when there are
// none.
func expandChildren(ctx context.Context, client MetadataClient, unitID string) (OrgUnitResolution, error) {
	children, err := client.ChildOrgUnits(ctx, unitID)
	if err != nil {
		return OrgUnitResolution{}, err
	}

	if len(children) == 0 {
		log.Warn().
			Str("orgUnit", unitID).
			Msg("Org unit has no children, degrading to single-unit mode")
		return OrgUnitResolution{Dimension: unitID}, nil
	}

	ids := make([]string, len(children))
	for i, child := range children {
		ids[i] = child.ID
	}

	return OrgUnitResolution{
		Dimension:    strings.Join(ids, ";"),
		MultiOrgUnit: true,
		Children:     children,
	}, nil
}
