package view

import (
	"fmt"
	"time"

	"github.com/hpungsan/outreach/internal/contact"
)

var (
	testLoc = time.FixedZone("PST", -8*3600)
	testNow = time.Date(2025, 6, 11, 10, 0, 0, 0, testLoc)
)

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func mk(id string, opts ...func(*contact.Contact)) contact.Contact {
	c := contact.Contact{
		ID:          id,
		Name:        "Name " + id,
		Title:       "Title " + id,
		Company:     "Company " + id,
		LinkedInURL: "https://linkedin.com/in/" + id,
		Status:      contact.StatusToContact,
		CreatedAt:   1,
		UpdatedAt:   1,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func withFollowUp(d string) func(*contact.Contact) {
	return func(c *contact.Contact) { c.FollowUpDate = contact.Ptr(d) }
}

func withStatus(s contact.Status) func(*contact.Contact) {
	return func(c *contact.Contact) { c.Status = s }
}

func withIndustry(i contact.Industry) func(*contact.Contact) {
	return func(c *contact.Contact) { c.Industry = contact.Ptr(i) }
}

func withName(n string) func(*contact.Contact) {
	return func(c *contact.Contact) { c.Name = n }
}

func withNotes(n string) func(*contact.Contact) {
	return func(c *contact.Contact) { c.Notes = contact.Ptr(n) }
}

func ids(cs []contact.Contact) []string {
	out := make([]string, len(cs))
	for i := range cs {
		out[i] = cs[i].ID
	}
	return out
}

func many(n int) []contact.Contact {
	out := make([]contact.Contact, n)
	for i := range out {
		out[i] = mk(fmt.Sprintf("c%02d", i))
	}
	return out
}
