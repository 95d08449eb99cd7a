package booking

import (
	"testing"
	"time"

	"servana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	locDowntown = models.Location{ID: "loc-1", BusinessID: "biz-1", Street: "1 Main St", City: "Springfield", Active: true}
	locUptown   = models.Location{ID: "loc-2", BusinessID: "biz-1", Street: "9 Hill Rd", City: "Springfield", Active: true}

	homeAddress = models.Address{Street: "42 Elm St", City: "Springfield"}
)

func savedHome(id string, def bool, created time.Time) models.SavedAddress {
	return models.SavedAddress{
		ID: id, CustomerID: "cust-1", Street: "42 Elm St", City: "Springfield",
		Default: def, CreatedAt: created,
	}
}

func TestResolveSelectionVirtual(t *testing.T) {
	sel, err := ResolveSelection(DeliveryState{}, models.DeliveryVirtual, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SelectionVirtual, sel.Kind)
	assert.NoError(t, ValidateSelection(sel))
	assert.Equal(t, models.DeliveryVirtual, sel.DeliveryType())
}

func TestResolveSelectionBusinessSite(t *testing.T) {
	locations := []models.Location{locDowntown, locUptown}

	// An explicit pick wins.
	sel, err := ResolveSelection(DeliveryState{LocationID: "loc-2"}, models.DeliveryBusinessLocation, locations, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SelectionBusinessSite, sel.Kind)
	assert.Equal(t, "loc-2", sel.LocationID)
	assert.Equal(t, models.DeliveryBusinessLocation, sel.DeliveryType())

	// A pick outside the active set is rejected, not silently replaced.
	_, err = ResolveSelection(DeliveryState{LocationID: "loc-gone"}, models.DeliveryBusinessLocation, locations, nil)
	assert.ErrorIs(t, err, ErrUnknownLocation)

	// Several locations and no pick: the customer must choose.
	_, err = ResolveSelection(DeliveryState{}, models.DeliveryBusinessLocation, locations, nil)
	assert.ErrorIs(t, err, ErrLocationRequired)

	// A single location is auto-selected.
	sel, err = ResolveSelection(DeliveryState{}, models.DeliveryBusinessLocation, []models.Location{locDowntown}, nil)
	require.NoError(t, err)
	assert.Equal(t, "loc-1", sel.LocationID)
}

func TestResolveSelectionCustomerSite(t *testing.T) {
	// A complete entered address wins.
	sel, err := ResolveSelection(DeliveryState{Address: &homeAddress}, models.DeliveryMobile, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SelectionCustomerSite, sel.Kind)
	require.NotNil(t, sel.Address)
	assert.Equal(t, "42 Elm St", sel.Address.Street)
	assert.Equal(t, models.DeliveryMobile, sel.DeliveryType())

	// An incomplete address never resolves.
	partial := models.Address{Street: "42 Elm St"}
	_, err = ResolveSelection(DeliveryState{Address: &partial}, models.DeliveryMobile, nil, nil)
	assert.ErrorIs(t, err, ErrAddressRequired)

	// A lone saved address is applied without interaction.
	saved := []models.SavedAddress{savedHome("sa-1", true, time.Now())}
	sel, err = ResolveSelection(DeliveryState{}, models.DeliveryMobile, nil, saved)
	require.NoError(t, err)
	assert.Equal(t, "sa-1", sel.Address.SavedAddressID)

	// With several saved addresses the customer still has to confirm.
	saved = append(saved, savedHome("sa-2", false, time.Now()))
	_, err = ResolveSelection(DeliveryState{}, models.DeliveryMobile, nil, saved)
	assert.ErrorIs(t, err, ErrAddressRequired)

	// No state and no saved addresses at all.
	_, err = ResolveSelection(DeliveryState{}, models.DeliveryMobile, nil, nil)
	assert.ErrorIs(t, err, ErrAddressRequired)
}

func TestResolveSelectionBothLocations(t *testing.T) {
	locations := []models.Location{locDowntown}
	saved := []models.SavedAddress{savedHome("sa-1", true, time.Now())}

	// Without an explicit choice the flow is blocked.
	_, err := ResolveSelection(DeliveryState{}, models.DeliveryBothLocations, locations, saved)
	assert.ErrorIs(t, err, ErrDeliveryChoiceRequired)

	// Choosing the business path resolves against locations.
	state := DeliveryState{Choice: models.ChoiceBusinessLocation}
	sel, err := ResolveSelection(state, models.DeliveryBothLocations, locations, saved)
	require.NoError(t, err)
	assert.Equal(t, models.SelectionBusinessSite, sel.Kind)

	// Choosing the customer path resolves against addresses.
	state = DeliveryState{Choice: models.ChoiceCustomerLocation}
	sel, err = ResolveSelection(state, models.DeliveryBothLocations, locations, saved)
	require.NoError(t, err)
	assert.Equal(t, models.SelectionCustomerSite, sel.Kind)
}

func TestResolveSelectionUnknownMode(t *testing.T) {
	_, err := ResolveSelection(DeliveryState{}, models.DeliveryMode("teleport"), nil, nil)
	assert.Error(t, err)
}

func TestSetChoiceClearsOtherPath(t *testing.T) {
	state := DeliveryState{LocationID: "loc-1"}
	state.SetChoice(models.ChoiceCustomerLocation)
	assert.Empty(t, state.LocationID, "switching to the customer path drops the location pick")

	state = DeliveryState{Address: &homeAddress}
	state.SetChoice(models.ChoiceBusinessLocation)
	assert.Nil(t, state.Address, "switching to the business path drops the address")
}

func TestDefaultSavedAddress(t *testing.T) {
	older := savedHome("sa-old", true, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := savedHome("sa-new", true, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	plain := savedHome("sa-plain", false, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	got := DefaultSavedAddress([]models.SavedAddress{older, plain, newer})
	require.NotNil(t, got)
	assert.Equal(t, "sa-new", got.ID, "most recently created default wins")

	assert.Nil(t, DefaultSavedAddress([]models.SavedAddress{plain}))
	assert.Nil(t, DefaultSavedAddress(nil))
}

func TestValidateSelection(t *testing.T) {
	assert.NoError(t, ValidateSelection(models.BusinessSiteSelection("loc-1")))
	assert.NoError(t, ValidateSelection(models.CustomerSiteSelection(homeAddress)))
	assert.NoError(t, ValidateSelection(models.VirtualSelection()))

	assert.ErrorIs(t, ValidateSelection(models.DeliverySelection{Kind: models.SelectionBusinessSite}), ErrLocationRequired)
	assert.ErrorIs(t, ValidateSelection(models.DeliverySelection{Kind: models.SelectionCustomerSite}), ErrAddressRequired)

	incomplete := models.CustomerSiteSelection(models.Address{City: "Springfield"})
	assert.ErrorIs(t, ValidateSelection(incomplete), ErrAddressRequired)

	assert.Error(t, ValidateSelection(models.DeliverySelection{Kind: "warp"}))
}
