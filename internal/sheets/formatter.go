// File: internal/sheets/formatter.go
package sheets

import (
	"fmt"
	"time"

	"contactsapi/internal/data"
)

// FormatContactsData formats contact records for Google Sheets export.
func FormatContactsData(contacts []*data.Contact, exportedBy string) [][]interface{} {
	header := []interface{}{
		"ID",
		"First Name",
		"Last Name",
		"Email",
		"Phone Number",
		"Birthday",
		"Notes",
		"Created",
	}

	formattedData := [][]interface{}{header}

	for _, contact := range contacts {
		row := []interface{}{
			contact.ID,
			contact.FirstName,
			contact.LastName,
			contact.Email,
			contact.PhoneNumber,
			contact.Birthday.Format("2006-01-02"),
			contact.AdditionalData,
			contact.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		formattedData = append(formattedData, row)
	}

	if len(contacts) > 0 {
		formattedData = append(formattedData, []interface{}{})
		formattedData = append(formattedData, []interface{}{"Total Contacts:", len(contacts), "", "", "", "", "", ""})
	}

	formattedData = append(formattedData, []interface{}{})
	formattedData = append(formattedData, []interface{}{"Export Information", "", "", "", "", "", "", ""})
	formattedData = append(formattedData, []interface{}{"Exported By:", exportedBy, "", "", "", "", "", ""})
	formattedData = append(formattedData, []interface{}{"Export Date:", time.Now().Format("2006-01-02 15:04:05"), "", "", "", "", "", ""})

	return formattedData
}

// GenerateSheetName builds a default sheet name for an export run.
func GenerateSheetName(username string, at time.Time) string {
	return fmt.Sprintf("contacts_%s_%s", username, at.Format("2006-01-02_150405"))
}
