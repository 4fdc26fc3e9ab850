package catalog

import "github.com/csg33k/parish-services/internal/domain"

const yearPattern = `^\d{4}$`

func baptismal() *Schema {
	return &Schema{
		Type:       domain.Baptismal,
		Title:      "Baptismal Reservation",
		Path:       "/system/baptismal_submit.php",
		Collection: "baptism_data",
		DateField:  "preferred_date",
		TimeField:  "preferred_time",
		Fields: []Field{
			{Name: "child_name", Label: "Child's Full Name", Required: true},
			{Name: "birth_date", Label: "Date of Birth", Kind: Date, Format: "MM/DD/YYYY", Required: true},
			{Name: "birth_place", Label: "Place of Birth", Required: true},
			{Name: "father_name", Label: "Father's Name", Required: true},
			{Name: "mother_name", Label: "Mother's Maiden Name", Required: true},
			{Name: "address", Label: "Home Address", Required: true},
			{Name: "contact_number", Label: "Contact Number", Kind: Numeric, Required: true},
			{Name: "preferred_date", Label: "Preferred Date", Kind: Date, Format: "YYYY-MM-DD", Required: true},
			{Name: "preferred_time", Label: "Preferred Time", Kind: Time, Format: "hh:mm A", Required: true},
			{Name: "sponsor1_name", Label: "Godparent 1 Name", Required: true},
			{Name: "sponsor1_age", Label: "Godparent 1 Age", Kind: Numeric, Required: true},
			{Name: "sponsor1_address", Label: "Godparent 1 Address", Required: true},
			{Name: "sponsor2_name", Label: "Godparent 2 Name"},
			{Name: "sponsor2_age", Label: "Godparent 2 Age", Kind: Numeric},
			{Name: "sponsor2_address", Label: "Godparent 2 Address"},
		},
		SuccessMessage: "Your baptismal reservation has been submitted.",
	}
}

func confirmation() *Schema {
	return &Schema{
		Type:       domain.Confirmation,
		Title:      "Confirmation Reservation",
		Path:       "/system/confirmation_submit.php",
		Collection: "confirmation_data",
		RequireAll: true,
		DateField:  "preferred_date",
		Fields: []Field{
			{Name: "confirmand_name", Label: "Confirmand's Full Name"},
			{Name: "age", Label: "Age", Kind: Numeric},
			{Name: "birth_date", Label: "Date of Birth", Kind: Date, Format: "MM/DD/YYYY"},
			{Name: "baptism_parish", Label: "Parish of Baptism"},
			{Name: "baptism_date", Label: "Date of Baptism", Kind: Date, Format: "MM/DD/YYYY"},
			{Name: "father_name", Label: "Father's Name"},
			{Name: "mother_name", Label: "Mother's Maiden Name"},
			{Name: "address", Label: "Home Address"},
			{Name: "contact_number", Label: "Contact Number", Kind: Numeric},
			{Name: "sponsor_name", Label: "Sponsor's Name"},
			{Name: "sponsor_age", Label: "Sponsor's Age", Kind: Numeric},
			{Name: "preferred_date", Label: "Preferred Date", Kind: Date, Format: "YYYY-MM-DD"},
		},
		SuccessMessage: "Your confirmation reservation has been submitted.",
	}
}

func firstCommunion() *Schema {
	return &Schema{
		Type:       domain.FirstCommunion,
		Title:      "First Communion Reservation",
		Path:       "/system/first_communion_submit.php",
		Collection: "communion_data",
		RequireAll: true,
		DateField:  "preferred_date",
		Fields: []Field{
			{Name: "child_name", Label: "Child's Full Name"},
			{Name: "age", Label: "Age", Kind: Numeric},
			{Name: "birth_date", Label: "Date of Birth", Kind: Date, Format: "MM/DD/YYYY"},
			{Name: "baptism_parish", Label: "Parish of Baptism"},
			{Name: "parent_name", Label: "Parent or Guardian"},
			{Name: "address", Label: "Home Address"},
			{Name: "contact_number", Label: "Contact Number", Kind: Numeric},
			{Name: "preferred_date", Label: "Preferred Date", Kind: Date, Format: "YYYY-MM-DD"},
		},
		SuccessMessage: "Your first communion reservation has been submitted.",
	}
}

func funeral() *Schema {
	return &Schema{
		Type:       domain.Funeral,
		Title:      "Pamisa sa Patay (Funeral Mass)",
		Path:       "/system/funeral_submit.php",
		Collection: "funeral_data",
		RequireAll: true,
		DateField:  "mass_date",
		TimeField:  "mass_time",
		Fields: []Field{
			{Name: "deceased_name", Label: "Name of Deceased"},
			{Name: "age", Label: "Age", Kind: Numeric},
			{Name: "birth_year", Label: "Year of Birth", Kind: Numeric,
				Pattern: yearPattern, PatternMessage: "Year of birth must be exactly 4 digits."},
			{Name: "death_year", Label: "Year of Death", Kind: Numeric,
				Pattern: yearPattern, PatternMessage: "Year of death must be exactly 4 digits."},
			{Name: "date_of_death", Label: "Date of Death", Kind: Date, Format: "MM/DD/YYYY"},
			{Name: "cause_of_death", Label: "Cause of Death"},
			{Name: "cemetery", Label: "Place of Interment"},
			{Name: "contact_person", Label: "Contact Person"},
			{Name: "relationship", Label: "Relationship to Deceased"},
			{Name: "contact_number", Label: "Contact Number", Kind: Numeric},
			{Name: "mass_date", Label: "Mass Date", Kind: Date, Format: "YYYY-MM-DD"},
			{Name: "mass_time", Label: "Mass Time", Kind: Time, Format: "h:mm A"},
		},
		SuccessMessage: "Your funeral mass request has been submitted.",
		ResetOnSuccess: true,
	}
}

func pamisa() *Schema {
	return &Schema{
		Type:       domain.Pamisa,
		Title:      "Pamisa (Mass Intention)",
		Path:       "/system/pamisa_submit.php",
		Collection: "pamisa_data",
		RequireAll: true,
		DateField:  "date",
		TimeField:  "time",
		Fields: []Field{
			{Name: "date", Label: "Date", Kind: Date, Format: "MM/DD/YYYY"},
			{Name: "time", Label: "Mass Schedule"},
			{Name: "intention", Label: "Intention"},
			{Name: "name", Label: "Name of Person Prayed For"},
			{Name: "offeredBy", Label: "Offered By"},
			{Name: "donation", Label: "Donation (PHP)", Kind: Numeric, Encoding: AsNumber},
		},
		SuccessMessage: "Your mass intention has been submitted.",
		SuccessNote:    "Please proceed to the Parish Office to settle your donation.",
		ResetOnSuccess: true,
		SuccessRoute:   DashboardRoute,
	}
}

func sickCall() *Schema {
	return &Schema{
		Type:       domain.SickCall,
		Title:      "Sick Call",
		Path:       "/system/sickcall_submit.php",
		Collection: "sickcall_data",
		RequireAll: true,
		DateField:  "preferred_date",
		TimeField:  "preferred_time",
		Fields: []Field{
			{Name: "patient_name", Label: "Patient's Name"},
			{Name: "age", Label: "Age", Kind: Numeric},
			{Name: "address", Label: "Address"},
			{Name: "condition", Label: "Condition"},
			{Name: "contact_person", Label: "Contact Person"},
			{Name: "contact_number", Label: "Contact Number", Kind: Numeric},
			{Name: "preferred_date", Label: "Preferred Date", Kind: Date, Format: "MM-DD"},
			{Name: "preferred_time", Label: "Preferred Time", Kind: Time, Format: "hh:mm A"},
		},
		SuccessMessage: "Your sick call request has been submitted.",
	}
}

// certificate builds a certificate request schema. Every certificate form
// requires login and shares the purpose and copies fields.
func certificate(t domain.FormType, title, script string, fields []Field) *Schema {
	fields = append(fields,
		Field{Name: "purpose", Label: "Purpose"},
		Field{Name: "copies", Label: "Number of Copies", Kind: Numeric},
	)
	return &Schema{
		Type:           t,
		Title:          title + " Request",
		Path:           "/system/" + script,
		Collection:     "certificate_requests",
		RequiresLogin:  true,
		RequireAll:     true,
		Fields:         fields,
		SuccessMessage: "Your certificate request has been submitted.",
		ResetOnSuccess: true,
		SuccessRoute:   DashboardRoute,
	}
}
