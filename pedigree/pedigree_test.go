package pedigree

import (
	"reflect"
	"testing"
)

// nineMembers is the pedigree used throughout the reference scenarios:
// founders 1, 2, 4 and 6; children 3 and 5 of 1x2, 7 of 3x4, 8 and 9
// of 5x6. Individuals 7, 8 and 9 are affected and genotyped.
func nineMembers() []Individual {
	return []Individual{
		{ID: 1, Sex: Male},
		{ID: 2, Sex: Female},
		{ID: 3, FatherID: 1, MotherID: 2, Sex: Male},
		{ID: 4, Sex: Female},
		{ID: 5, FatherID: 1, MotherID: 2, Sex: Male},
		{ID: 6, Sex: Female},
		{ID: 7, FatherID: 3, MotherID: 4, Sex: Male, Affected: true, DNAAvailable: true},
		{ID: 8, FatherID: 5, MotherID: 6, Sex: Female, Affected: true, DNAAvailable: true},
		{ID: 9, FatherID: 5, MotherID: 6, Sex: Male, Affected: true, DNAAvailable: true},
	}
}

func TestQueries(tst *testing.T) {
	ped, err := New(nineMembers())
	if err != nil {
		tst.Fatal("Error building pedigree:", err)
	}
	if ped.NInd() != 9 {
		tst.Error("wrong number of individuals:", ped.NInd())
	}
	if !reflect.DeepEqual(ped.Founders(), []int{1, 2, 4, 6}) {
		tst.Error("wrong founders:", ped.Founders())
	}
	if !reflect.DeepEqual(ped.GenotypedAffected(), []int{7, 8, 9}) {
		tst.Error("wrong genotyped affected:", ped.GenotypedAffected())
	}
	if !reflect.DeepEqual(ped.Children(5), []int{8, 9}) {
		tst.Error("wrong children of 5:", ped.Children(5))
	}
	if len(ped.Children(9)) != 0 {
		tst.Error("leaf individual has children")
	}

	f, m, ok := ped.ParentsOf(7)
	if !ok || f != 3 || m != 4 {
		tst.Errorf("wrong parents of 7: %d, %d", f, m)
	}
	if _, _, ok := ped.ParentsOf(1); ok {
		tst.Error("founder has parents")
	}
	if _, _, ok := ped.ParentsOf(100); ok {
		tst.Error("unknown individual has parents")
	}
}

func TestNodeOrder(tst *testing.T) {
	ped, err := New(nineMembers())
	if err != nil {
		tst.Fatal("Error building pedigree:", err)
	}
	order := ped.NodeOrder()
	if len(order) != ped.NInd() {
		tst.Fatal("node order misses individuals")
	}
	seen := make(map[int]bool, len(order))
	for _, id := range order {
		if f, m, ok := ped.ParentsOf(id); ok {
			if !seen[f] || !seen[m] {
				tst.Errorf("individual %d ordered before a parent", id)
			}
		}
		seen[id] = true
	}
}

func TestImmutability(tst *testing.T) {
	members := nineMembers()
	ped, err := New(members)
	if err != nil {
		tst.Fatal("Error building pedigree:", err)
	}
	members[0].ID = 42
	if !ped.Has(1) || ped.Has(42) {
		tst.Error("pedigree shares storage with the input slice")
	}
}

func TestMalformed(tst *testing.T) {
	tests := []struct {
		name    string
		members []Individual
	}{
		{"duplicate id", []Individual{{ID: 1}, {ID: 1}}},
		{"zero id", []Individual{{ID: 0}}},
		{"dangling father", []Individual{{ID: 1}, {ID: 2}, {ID: 3, FatherID: 9, MotherID: 2}}},
		{"dangling mother", []Individual{{ID: 1}, {ID: 2}, {ID: 3, FatherID: 1, MotherID: 9}}},
		{"single parent", []Individual{{ID: 1}, {ID: 2, FatherID: 1}}},
		{"identical parents", []Individual{{ID: 1}, {ID: 2, FatherID: 1, MotherID: 1}}},
		{"own parent", []Individual{{ID: 1}, {ID: 2, FatherID: 2, MotherID: 1}}},
		{"cycle", []Individual{
			{ID: 1},
			{ID: 2, FatherID: 3, MotherID: 1},
			{ID: 3, FatherID: 2, MotherID: 1},
		}},
	}
	for _, test := range tests {
		_, err := New(test.members)
		if err == nil {
			tst.Errorf("%s: expected error", test.name)
			continue
		}
		if _, ok := err.(*MalformedPedigreeError); !ok {
			tst.Errorf("%s: expected MalformedPedigreeError, got %T", test.name, err)
		}
	}
}
