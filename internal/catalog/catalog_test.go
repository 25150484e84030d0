package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServices(t *testing.T) {
	c := Default()

	all, err := c.Services("")
	require.NoError(t, err)
	assert.Len(t, all, 9)

	svc, err := c.Service(1)
	require.NoError(t, err)
	assert.Equal(t, "Precision Cut & Style", svc.Name)
	assert.Equal(t, "$85-120", svc.Price)
	assert.Equal(t, "90 min", svc.Duration)
	assert.True(t, svc.Popular)
}

func TestServicesByCategory(t *testing.T) {
	c := Default()

	nails, err := c.Services("Nails")
	require.NoError(t, err)
	require.Len(t, nails, 3)
	for _, s := range nails {
		assert.Equal(t, CategoryNails, s.Category)
	}

	all, err := c.Services("all")
	require.NoError(t, err)
	assert.Len(t, all, 9)

	_, err = c.Services("massage")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestStaffLookup(t *testing.T) {
	c := Default()

	s, err := c.StaffMember(1)
	require.NoError(t, err)
	assert.Equal(t, "Isabella Martinez", s.Name)
	assert.Equal(t, []string{"Hair Cutting", "Color", "Styling"}, s.Specialties)

	_, err = c.StaffMember(99)
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = c.Service(42)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := Default()

	staff := c.StaffMembers()
	staff[0].Name = "changed"
	staff[0].Specialties[0] = "changed"

	fresh, err := c.StaffMember(staff[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Isabella Martinez", fresh.Name)
	assert.Equal(t, "Hair Cutting", fresh.Specialties[0])

	services, _ := c.Services("")
	services[0].Name = "changed"
	svc, _ := c.Service(1)
	assert.Equal(t, "Precision Cut & Style", svc.Name)
}

func TestDefaultSalon(t *testing.T) {
	salon := DefaultSalon()
	assert.Equal(t, "Luxe Salon", salon.Name)
	assert.Equal(t, "info@luxesalon.com", salon.Email)
}
