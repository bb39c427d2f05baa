// Package export maps final leads into the flat schemas of the two
// downstream campaign platforms and serializes them to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/outboundiq/leadpipe/internal/model"
)

// InstantlyRecord is the flat lead shape the Instantly importer accepts.
type InstantlyRecord struct {
	Email       string `csv:"email" json:"email"`
	FirstName   string `csv:"first_name" json:"first_name"`
	LastName    string `csv:"last_name" json:"last_name"`
	CompanyName string `csv:"company_name" json:"company_name"`
	Website     string `csv:"website" json:"website"`
	Phone       string `csv:"phone" json:"phone"`
	Tags        string `csv:"tags" json:"tags"`
}

// SmartleadRecord is the flat lead shape the Smartlead importer accepts.
type SmartleadRecord struct {
	Email        string `csv:"email" json:"email"`
	FirstName    string `csv:"first_name" json:"first_name"`
	LastName     string `csv:"last_name" json:"last_name"`
	Company      string `csv:"company" json:"company"`
	Website      string `csv:"website" json:"website"`
	PhoneNumber  string `csv:"phone_number" json:"phone_number"`
	Location     string `csv:"location" json:"location"`
	CustomFields string `csv:"custom_fields" json:"custom_fields"`
}

// Tag encodes vertical, lead source, and score into a single tag string.
func Tag(vertical string, lead model.UnifiedLead) string {
	return fmt.Sprintf("vertical:%s;source:%s;score:%d", vertical, lead.LeadSource, lead.Score())
}

// ToInstantly flattens a lead into the Instantly schema. Missing optional
// fields become empty strings; formatting never fails.
func ToInstantly(lead model.UnifiedLead, vertical string) InstantlyRecord {
	return InstantlyRecord{
		Email:       lead.Email,
		FirstName:   lead.FirstName,
		LastName:    lead.LastName,
		CompanyName: lead.CompanyName,
		Website:     lead.Domain,
		Phone:       lead.Phone,
		Tags:        Tag(vertical, lead),
	}
}

// ToSmartlead flattens a lead into the Smartlead schema.
func ToSmartlead(lead model.UnifiedLead, vertical string) SmartleadRecord {
	return SmartleadRecord{
		Email:        lead.Email,
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		Company:      lead.CompanyName,
		Website:      lead.Domain,
		PhoneNumber:  lead.Phone,
		Location:     lead.Location,
		CustomFields: Tag(vertical, lead),
	}
}

// BuildInstantly maps a lead list into Instantly records.
func BuildInstantly(leads []model.UnifiedLead, vertical string) []InstantlyRecord {
	out := make([]InstantlyRecord, len(leads))
	for i, l := range leads {
		out[i] = ToInstantly(l, vertical)
	}
	return out
}

// BuildSmartlead maps a lead list into Smartlead records.
func BuildSmartlead(leads []model.UnifiedLead, vertical string) []SmartleadRecord {
	out := make([]SmartleadRecord, len(leads))
	for i, l := range leads {
		out[i] = ToSmartlead(l, vertical)
	}
	return out
}

// WriteCSV serializes a slice of flat records as delimited text. Fields
// containing the delimiter or quote character are quoted by the underlying
// csv writer.
func WriteCSV(w io.Writer, records any) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.Encode(records); err != nil {
		return eris.Wrap(err, "export: encode csv")
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
