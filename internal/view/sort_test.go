package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hpungsan/outreach/internal/contact"
)

func sortSample() []contact.Contact {
	return []contact.Contact{
		mk("1", withName("Mia"), withFollowUp("2025-06-20")),
		mk("2", withName("Ann")),
		mk("3", withName("Zed"), withFollowUp("2025-06-01")),
		mk("4", withName("Bea"), withFollowUp("2025-06-20")),
		mk("5", withName("Cy")),
		mk("6", withName("Dee"), withFollowUp("2025-05-30")),
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		name string
		spec SortSpec
		want []string
	}{
		{"follow up asc, nulls last, stable ties", SortSpec{SortFollowUpDate, Asc}, []string{"6", "3", "1", "4", "2", "5"}},
		{"follow up desc, nulls still last", SortSpec{SortFollowUpDate, Desc}, []string{"1", "4", "3", "6", "2", "5"}},
		{"name asc", SortSpec{SortName, Asc}, []string{"2", "4", "5", "6", "1", "3"}},
		{"name desc", SortSpec{SortName, Desc}, []string{"3", "1", "6", "5", "4", "2"}},
		{"default when empty", SortSpec{}, []string{"6", "3", "1", "4", "2", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Sort(sortSample(), tt.spec))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSort_DescReversesPresentPrefix(t *testing.T) {
	records := sortSample()
	for _, field := range []SortField{SortFollowUpDate, SortIndustry, SortCallDate} {
		asc := Sort(records, SortSpec{field, Asc})
		desc := Sort(asc, SortSpec{field, Desc})

		var presentAsc []string
		var absentAsc, absentDesc []string
		for _, c := range asc {
			if fieldKey(&c, field).present {
				presentAsc = append(presentAsc, c.ID)
			} else {
				absentAsc = append(absentAsc, c.ID)
			}
		}
		n := len(presentAsc)
		for _, c := range desc[n:] {
			absentDesc = append(absentDesc, c.ID)
		}

		// distinct present values reverse exactly; ties keep their order
		prevKey := ""
		for i, c := range desc[:n] {
			k := fieldKey(&c, field).text
			if i > 0 && k > prevKey {
				t.Errorf("%s: desc not descending at %d", field, i)
			}
			prevKey = k
		}
		if diff := cmp.Diff(absentAsc, absentDesc); diff != "" {
			t.Errorf("%s: absent tail differs between orders:\n%s", field, diff)
		}
	}
}

func TestSort_NumericFields(t *testing.T) {
	records := []contact.Contact{mk("a"), mk("b"), mk("c")}
	records[0].CreatedAt = 300
	records[1].CreatedAt = 20
	records[2].CreatedAt = 1000

	got := ids(Sort(records, SortSpec{SortCreatedAt, Asc}))
	if diff := cmp.Diff([]string{"b", "a", "c"}, got); diff != "" {
		t.Errorf("created_at should compare numerically (-want +got):\n%s", diff)
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	records := sortSample()
	before := ids(records)
	_ = Sort(records, SortSpec{SortName, Desc})
	if diff := cmp.Diff(before, ids(records)); diff != "" {
		t.Errorf("input reordered:\n%s", diff)
	}
}

func TestSortSpec_Toggle(t *testing.T) {
	s := SortSpec{SortName, Asc}
	s = s.Toggle(SortName)
	if s != (SortSpec{SortName, Desc}) {
		t.Errorf("same field should flip to desc, got %+v", s)
	}
	s = s.Toggle(SortName)
	if s != (SortSpec{SortName, Asc}) {
		t.Errorf("same field should flip back to asc, got %+v", s)
	}
	s = SortSpec{SortName, Desc}.Toggle(SortCompany)
	if s != (SortSpec{SortCompany, Asc}) {
		t.Errorf("new field should start asc, got %+v", s)
	}
}

func TestParseSortField(t *testing.T) {
	if f, err := ParseSortField(""); err != nil || f != SortFollowUpDate {
		t.Errorf("ParseSortField(\"\") = %q, %v", f, err)
	}
	if f, err := ParseSortField("Company"); err != nil || f != SortCompany {
		t.Errorf("ParseSortField(Company) = %q, %v", f, err)
	}
	if _, err := ParseSortField("linkedin_url"); err == nil {
		t.Error("expected error for unsortable field")
	}
	if _, err := ParseSortOrder("sideways"); err == nil {
		t.Error("expected error for bad order")
	}
}
