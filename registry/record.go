// Package registry consumes the CNPJá office-search API: paginated record
// retrieval plus the record model the matcher and report work with.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"buscacnpj/normalization"
)

// activeStatusID is the registry's status code for an active company.
const activeStatusID = "2"

// activeStatusLabel is the free-text form of the active status.
const activeStatusLabel = "ativa"

// Office is one company record as returned by the registry search.
type Office struct {
	TaxID   string  `json:"taxId"`
	Company Company `json:"company"`
	// Members may appear at record level on some API versions instead of
	// under company.
	Members []Member `json:"members"`
	Emails  []Email  `json:"emails"`
	Phones  []Phone  `json:"phones"`
	Status  Status   `json:"status"`

	// Older payloads carry the status code as a sibling field, under one
	// of two spellings.
	StatusID    FlexID `json:"statusId"`
	StatusIDAlt FlexID `json:"status_id"`
}

// Company holds the legal-entity data nested in an office record.
type Company struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// Member is a partner or legal representative of the company.
type Member struct {
	Person Person `json:"person"`
	Agent  Agent  `json:"agent"`
}

// Agent is the representative acting for a member.
type Agent struct {
	Person Person `json:"person"`
}

// Person carries the individual's name.
type Person struct {
	Name string `json:"name"`
}

// Email is one registered contact address.
type Email struct {
	Address string `json:"address"`
}

// Phone is one registered contact number, split into area code and number.
type Phone struct {
	Area   string `json:"area"`
	Number string `json:"number"`
}

// FlexID decodes a JSON identifier that may arrive as a number or a string.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id value: %s", string(data))
	}
	*f = FlexID(n.String())
	return nil
}

// Status is the company situation as reported by the registry. The API is
// inconsistent about its shape: an object with a numeric code and a label,
// a bare label string, or absent entirely. The three cases collapse into a
// tagged variant: coded (ID set), labeled (only Label set), or unknown
// (both empty).
type Status struct {
	ID    FlexID
	Label string
}

// UnmarshalJSON implements json.Unmarshaler for the three wire shapes.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		s.Label = label
		return nil
	}

	var obj struct {
		ID    FlexID `json:"id"`
		Text  string `json:"text"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid status value: %s", string(data))
	}
	s.ID = obj.ID
	if obj.Text != "" {
		s.Label = obj.Text
	} else {
		s.Label = obj.Label
	}
	return nil
}

// IsActive resolves the status variant to a single boolean. A coded status
// compares against the active code, a labeled one against the "ativa"
// label; when the status block is absent the sibling status-id fields
// decide. Unknown resolves to inactive.
func (o Office) IsActive() bool {
	if o.Status.ID != "" {
		return string(o.Status.ID) == activeStatusID
	}
	if o.Status.Label != "" {
		return strings.ToLower(strings.TrimSpace(o.Status.Label)) == activeStatusLabel
	}
	if o.StatusID != "" {
		return string(o.StatusID) == activeStatusID
	}
	if o.StatusIDAlt != "" {
		return string(o.StatusIDAlt) == activeStatusID
	}
	return false
}

// members returns the member list wherever the payload put it.
func (o Office) members() []Member {
	if len(o.Company.Members) > 0 {
		return o.Company.Members
	}
	return o.Members
}

// Owners collects the names of members and their agents, deduplicated in
// insertion order.
func (o Office) Owners() []string {
	var owners []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			owners = append(owners, name)
		}
	}
	for _, m := range o.members() {
		add(m.Person.Name)
		add(m.Agent.Person.Name)
	}
	return owners
}

// EmailAddresses returns the non-empty registered e-mail addresses.
func (o Office) EmailAddresses() []string {
	var addrs []string
	for _, e := range o.Emails {
		if e.Address != "" {
			addrs = append(addrs, e.Address)
		}
	}
	return addrs
}

// PhoneDisplay formats the registered phones for presentation, e.g.
// "(13) 3222-0000".
func (o Office) PhoneDisplay() []string {
	var out []string
	for _, p := range o.Phones {
		area := strings.TrimSpace(p.Area)
		number := strings.TrimSpace(p.Number)
		switch {
		case area != "" && number != "":
			out = append(out, fmt.Sprintf("(%s) %s", area, number))
		case number != "":
			out = append(out, number)
		}
	}
	return out
}

// PhoneDigits returns the registered phones in normalized comparable form:
// area code and number concatenated, digit-sanitized, country prefix
// stripped.
func (o Office) PhoneDigits() []string {
	var out []string
	for _, p := range o.Phones {
		if digits := normalization.Phone(p.Area + p.Number); digits != "" {
			out = append(out, digits)
		}
	}
	return out
}
