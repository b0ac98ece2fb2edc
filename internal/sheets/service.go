// File: internal/sheets/service.go
package sheets

import (
	"fmt"

	"contactsapi/internal/data"
)

// Service provides high-level operations for Google Sheets exports.
type Service struct {
	client *Client
}

// NewService creates a new sheets service.
func NewService(client *Client) *Service {
	return &Service{
		client: client,
	}
}

// ExportContacts exports contact records to a Google Sheet and returns the
// number of exported rows.
func (s *Service) ExportContacts(sheetName string, contacts []*data.Contact, exportedBy string) (int, error) {
	_, err := s.client.CreateSheet(sheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := s.client.ClearSheet(sheetName); err != nil {
		return 0, fmt.Errorf("failed to clear sheet: %w", err)
	}

	formattedData := FormatContactsData(contacts, exportedBy)

	if err := s.client.WriteData(sheetName, "A1", formattedData); err != nil {
		return 0, fmt.Errorf("failed to write data: %w", err)
	}

	if err := s.client.FormatHeader(sheetName, len(formattedData[0])); err != nil {
		return 0, fmt.Errorf("failed to format header: %w", err)
	}

	return len(contacts), nil
}

// GetSpreadsheetInfo returns information about the configured spreadsheet.
func (s *Service) GetSpreadsheetInfo() (map[string]interface{}, error) {
	spreadsheet, err := s.client.GetSpreadsheet()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		titles = append(titles, sheet.Properties.Title)
	}

	info := map[string]interface{}{
		"spreadsheet_id":    spreadsheet.SpreadsheetId,
		"spreadsheet_title": spreadsheet.Properties.Title,
		"sheets":            titles,
		"sheet_count":       len(titles),
	}

	return info, nil
}

// TestConnection verifies the spreadsheet is reachable with the configured credentials.
func (s *Service) TestConnection() error {
	_, err := s.client.GetSpreadsheet()
	return err
}
