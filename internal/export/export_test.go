package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLeads(t *testing.T) {
	age := 10
	leads := []*models.Lead{
		{LeadID: 1, FullName: "Ali Raza", Age: &age, City: "Lahore", LeadStatus: models.LeadStatusNew,
			CreatedAt: time.Date(2026, time.October, 1, 10, 0, 0, 0, time.UTC)},
		{LeadID: 2, FullName: "Sara Malik", InterestedCourse: "Robotics", LeadStatus: models.LeadStatusContacted},
	}

	var buf bytes.Buffer
	require.NoError(t, Leads(&buf, "Age 9-12", leads))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Age 9-12")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"1", "Ali Raza", "", "", "10", "Lahore", "", "", "", "New", "2026-10-01"}, rows[1])
	assert.Equal(t, "Robotics", rows[2][7])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Leads", sheetName("[]"))
	assert.Equal(t, "AB", sheetName("A/B"))
	assert.Len(t, []rune(sheetName("A very long group name that exceeds the limit")), maxSheetName)
}
