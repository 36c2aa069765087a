package analytics

import (
	"context"
	"errors"
	"testing"

	"datachat/internal/dhis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMetadataClient is a mock implementation for testing
type MockMetadataClient struct {
	mock.Mock
}

func (m *MockMetadataClient) ChildOrgUnits(ctx context.Context, unitID string) ([]dhis.OrgUnit, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dhis.OrgUnit), args.Error(1)
}

func (m *MockMetadataClient) Me(ctx context.Context) (*dhis.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dhis.User), args.Error(1)
}

func TestResolveOrgUnit_ConcreteSingle(t *testing.T) {
	client := new(MockMetadataClient)

	res, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{
		Unit: &dhis.OrgUnit{ID: "X", DisplayName: "Bo"},
	}, client)
	require.NoError(t, err)
	assert.Equal(t, "X", res.Dimension)
	assert.False(t, res.MultiOrgUnit)
	client.AssertNotCalled(t, "ChildOrgUnits")
}

func TestResolveOrgUnit_ChildExpansion(t *testing.T) {
	client := new(MockMetadataClient)
	client.On("ChildOrgUnits", mock.Anything, "X").Return([]dhis.OrgUnit{
		{ID: "c1", DisplayName: "Badjia"},
		{ID: "c2", DisplayName: "Baoma"},
	}, nil)

	res, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{
		Unit:            &dhis.OrgUnit{ID: "X"},
		IncludeChildren: true,
	}, client)
	require.NoError(t, err)
	assert.Equal(t, "c1;c2", res.Dimension)
	assert.True(t, res.MultiOrgUnit)
	assert.Len(t, res.Children, 2)
}

func TestResolveOrgUnit_NoChildrenDegrades(t *testing.T) {
	client := new(MockMetadataClient)
	client.On("ChildOrgUnits", mock.Anything, "X").Return([]dhis.OrgUnit{}, nil)

	res, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{
		Unit:            &dhis.OrgUnit{ID: "X"},
		IncludeChildren: true,
	}, client)
	require.NoError(t, err)
	assert.Equal(t, "X", res.Dimension)
	assert.False(t, res.MultiOrgUnit)
	assert.Empty(t, res.Children)
}

func TestResolveOrgUnit_ListerErrorPropagates(t *testing.T) {
	client := new(MockMetadataClient)
	client.On("ChildOrgUnits", mock.Anything, "X").Return(nil, errors.New("boom"))

	_, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{
		Unit:            &dhis.OrgUnit{ID: "X"},
		IncludeChildren: true,
	}, client)
	assert.EqualError(t, err, "boom")
}

func TestResolveOrgUnit_SpecialTokens(t *testing.T) {
	tests := []struct {
		token     string
		wantMulti bool
	}{
		{TokenUserOrgUnit, false},
		{TokenUserOrgUnitChildren, true},
		{TokenUserOrgUnitGrandchildren, true},
	}

	client := new(MockMetadataClient)
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{Token: tt.token}, client)
			require.NoError(t, err)
			assert.Equal(t, tt.token, res.Dimension)
			assert.Equal(t, tt.wantMulti, res.MultiOrgUnit)
		})
	}
	client.AssertNotCalled(t, "ChildOrgUnits")
	client.AssertNotCalled(t, "Me")
}

func TestResolveOrgUnit_UserOrgUnitChildExpansion(t *testing.T) {
	client := new(MockMetadataClient)
	client.On("Me", mock.Anything).Return(&dhis.User{
		OrgUnits: []dhis.OrgUnit{{ID: "U", DisplayName: "Kailahun"}},
	}, nil)
	client.On("ChildOrgUnits", mock.Anything, "U").Return([]dhis.OrgUnit{
		{ID: "c1", DisplayName: "Dea"},
		{ID: "c2", DisplayName: "Jawei"},
	}, nil)

	res, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{
		Token:           TokenUserOrgUnit,
		IncludeChildren: true,
	}, client)
	require.NoError(t, err)
	assert.Equal(t, "c1;c2", res.Dimension)
	assert.True(t, res.MultiOrgUnit)
	require.Len(t, res.Children, 2)
	assert.Equal(t, "Dea", res.Children[0].DisplayName)
}

func TestResolveOrgUnit_UserWithoutUnitsDegradesToToken(t *testing.T) {
	client := new(MockMetadataClient)
	client.On("Me", mock.Anything).Return(&dhis.User{}, nil)

	res, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{
		Token:           TokenUserOrgUnit,
		IncludeChildren: true,
	}, client)
	require.NoError(t, err)
	assert.Equal(t, TokenUserOrgUnit, res.Dimension)
	assert.False(t, res.MultiOrgUnit)
	client.AssertNotCalled(t, "ChildOrgUnits")
}

func TestResolveOrgUnit_UserLookupErrorPropagates(t *testing.T) {
	client := new(MockMetadataClient)
	client.On("Me", mock.Anything).Return(nil, errors.New("me failed"))

	_, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{
		Token:           TokenUserOrgUnit,
		IncludeChildren: true,
	}, client)
	assert.EqualError(t, err, "me failed")
}

func TestResolveOrgUnit_InvalidSelections(t *testing.T) {
	client := new(MockMetadataClient)

	var selErr *InvalidSelectionError
	_, err := ResolveOrgUnit(context.Background(), OrgUnitSelection{Token: "USER_TEAM"}, client)
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "ou", selErr.Dimension)

	_, err = ResolveOrgUnit(context.Background(), OrgUnitSelection{}, client)
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "ou", selErr.Dimension)
}
