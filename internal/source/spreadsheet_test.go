package source

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeBlobs struct {
	data map[string][]byte
}

func (f *fakeBlobs) GetObject(_ context.Context, key string) ([]byte, error) {
	blob, ok := f.data[key]
	if !ok {
		return nil, fmt.Errorf("no such object %s", key)
	}
	return blob, nil
}

var teppHeader = []any{
	"Status",
	"Event Name",
	"Event Start Date",
	"Event End Date",
	"Show Website",
	"Show Description",
	"Contact Name (First and Last)",
	"Contact Phone Number",
	"Contact Email",
	"City (Organization)",
	"Event Location - City",
	"Event Location - State (U.S. Only)",
	"Event Location - Country",
	"Primary Industry",
}

// buildWorkbook writes the header row plus the given data rows into an
// in-memory xlsx blob.
func buildWorkbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &teppHeader))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestSpreadsheetFetchEndToEnd(t *testing.T) {
	blob := buildWorkbook(t, []any{
		"MOA Received",
		"World of Concrete 2020",
		"2020-03-19 00:00:00",
		"2020-03-24 00:00:00",
		"https://worldofconcrete.example.com",
		"Concrete and masonry trade show.",
		"Jackie James",
		"702-555-0100",
		"jackie.james@example.gov",
		"Las Vegas",
		"Las Vegas",
		"NV",
		"USA",
		"Construction",
	})

	s := NewSpreadsheetSource(&fakeBlobs{data: map[string][]byte{"tepp_export.xlsx": blob}}, "tepp_export.xlsx")

	events, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	// Stable content hash over name + dates + city.
	assert.Equal(t, "1be214eb311cdadf9822bd346f580e8a0eb3506e", event.EventID)
	assert.Equal(t, "World of Concrete 2020", *event.EventName)
	assert.Equal(t, "Trade Events Partnership Program", *event.EventType)
	assert.Equal(t, "2020-03-19", *event.StartDate)
	assert.Equal(t, "2020-03-24", *event.EndDate)
	assert.Nil(t, event.Cost)
	assert.Nil(t, event.RegistrationLink)
	assert.Nil(t, event.RegistrationTitle)

	require.Len(t, event.Contacts, 1)
	assert.Equal(t, "Jackie", *event.Contacts[0].FirstName)
	assert.Equal(t, "James", *event.Contacts[0].LastName)
	assert.Nil(t, event.Contacts[0].Title)
	assert.Equal(t, "Las Vegas", *event.Contacts[0].Post)

	require.Len(t, event.Venues, 1)
	assert.Equal(t, "Las Vegas, NV, USA", *event.Venues[0].Location)

	assert.Equal(t, []string{"Construction"}, event.Industries)
}

func TestSpreadsheetStatusFiltering(t *testing.T) {
	blob := buildWorkbook(t,
		[]any{"Cancelled", "Dropped Expo", "2021-01-01 00:00:00", "2021-01-02 00:00:00", "", "", "", "", "", "", "Reno", "NV", "USA", ""},
		[]any{"Event Completed", "Kept Expo", "2021-02-01 00:00:00", "2021-02-02 00:00:00", "", "", "", "", "", "", "Reno", "NV", "USA", ""},
		[]any{"Pending", "Also Dropped", "2021-03-01 00:00:00", "2021-03-02 00:00:00", "", "", "", "", "", "", "Reno", "NV", "USA", ""},
	)

	s := NewSpreadsheetSource(&fakeBlobs{data: map[string][]byte{"tepp_export.xlsx": blob}}, "tepp_export.xlsx")

	events, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Kept Expo", *events[0].EventName)
}

func TestSpreadsheetEmptyCellsResolveNull(t *testing.T) {
	blob := buildWorkbook(t, []any{
		"MOA Received", "Sparse Expo", "", "", "", "", "", "", "", "", "", "NV", "", "",
	})

	s := NewSpreadsheetSource(&fakeBlobs{data: map[string][]byte{"tepp_export.xlsx": blob}}, "tepp_export.xlsx")

	events, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.Nil(t, event.StartDate)
	assert.Nil(t, event.EndDate)
	assert.Nil(t, event.URL)
	assert.Equal(t, []string{}, event.Industries)

	require.Len(t, event.Contacts, 1)
	assert.Nil(t, event.Contacts[0].FirstName)
	assert.Nil(t, event.Contacts[0].LastName)

	require.Len(t, event.Venues, 1)
	assert.Nil(t, event.Venues[0].City)
	assert.Equal(t, "NV", *event.Venues[0].Location)
}

func TestSpreadsheetMalformedDateFailsRun(t *testing.T) {
	blob := buildWorkbook(t, []any{
		"MOA Received", "Bad Date Expo", "March 19th 2020", "", "", "", "", "", "", "", "Reno", "NV", "USA", "",
	})

	s := NewSpreadsheetSource(&fakeBlobs{data: map[string][]byte{"tepp_export.xlsx": blob}}, "tepp_export.xlsx")

	_, err := s.Fetch(context.Background())
	assert.Error(t, err)
}

func TestSpreadsheetMissingObject(t *testing.T) {
	s := NewSpreadsheetSource(&fakeBlobs{}, "tepp_export.xlsx")
	_, err := s.Fetch(context.Background())
	assert.Error(t, err)
}
