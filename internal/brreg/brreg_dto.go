package brreg

// CompanyInfo is the local shape a registry record is mapped onto.
type CompanyInfo struct {
	OrgNumber        string `json:"orgNumber"`
	Name             string `json:"name"`
	OrgForm          string `json:"orgForm"`
	Address          string `json:"address"`
	PostalCode       string `json:"postalCode"`
	City             string `json:"city"`
	IndustryCode     string `json:"industryCode"`
	IndustryText     string `json:"industryText"`
	EmployeeCount    int    `json:"employeeCount"`
	RegistrationDate string `json:"registrationDate"`
	Website          string `json:"website,omitempty"`
}

// Wire types for the Enhetsregisteret API. Only the fields we read.
type enhet struct {
	Organisasjonsnummer string `json:"organisasjonsnummer"`
	Navn                string `json:"navn"`
	Organisasjonsform   struct {
		Kode        string `json:"kode"`
		Beskrivelse string `json:"beskrivelse"`
	} `json:"organisasjonsform"`
	Forretningsadresse struct {
		Adresse    []string `json:"adresse"`
		Postnummer string   `json:"postnummer"`
		Poststed   string   `json:"poststed"`
	} `json:"forretningsadresse"`
	Naeringskode1 struct {
		Kode        string `json:"kode"`
		Beskrivelse string `json:"beskrivelse"`
	} `json:"naeringskode1"`
	AntallAnsatte          int    `json:"antallAnsatte"`
	RegistreringsdatoEnhet string `json:"registreringsdatoEnhetsregisteret"`
	Hjemmeside             string `json:"hjemmeside"`
}

type searchPage struct {
	Embedded struct {
		Enheter []enhet `json:"enheter"`
	} `json:"_embedded"`
}
