package pedio

import (
	"bytes"
	"testing"

	"github.com/SFUStatgen/TJ2022/pedigree"
)

const ped1 = `# reference pedigree
1 0 0 1 0 0
2 0 0 2 0 0
3 1 2 1 0 0
4 0 0 2 0 0
5 1 2 1 0 0
6 0 0 2 0 0
7 3 4 1 1 1
8 5 6 2 1 1  # genotyped
9 5 6 1 1 1
`

func TestParsePed(tst *testing.T) {
	members, err := ParsePed(bytes.NewBufferString(ped1))
	if err != nil {
		tst.Fatal("Error parsing pedigree:", err)
	}
	if len(members) != 9 {
		tst.Fatal("wrong number of individuals:", len(members))
	}
	if members[6].ID != 7 || members[6].FatherID != 3 || members[6].MotherID != 4 {
		tst.Error("wrong record for individual 7:", members[6])
	}
	if !members[7].Affected || !members[7].DNAAvailable {
		tst.Error("comment broke flag parsing")
	}
	if members[0].Sex != pedigree.Male || members[1].Sex != pedigree.Female {
		tst.Error("wrong sex parsing")
	}

	ped, err := pedigree.New(members)
	if err != nil {
		tst.Fatal("Error building pedigree:", err)
	}
	if len(ped.Founders()) != 4 {
		tst.Error("wrong founders:", ped.Founders())
	}
}

func TestParsePedErrors(tst *testing.T) {
	for _, in := range []string{
		"1 0 0 1 0",       // missing field
		"1 0 0 1 0 0 0",   // extra field
		"x 0 0 1 0 0",     // not a number
		"1 0 0 7 0 0",     // bad sex
		"1 0 0 1 2 0",     // bad flag
	} {
		if _, err := ParsePed(bytes.NewBufferString(in)); err == nil {
			tst.Errorf("expected parse error for %q", in)
		}
	}
}

func TestParseConfig(tst *testing.T) {
	config, err := ParseConfig("7=1, 8=1,9=0")
	if err != nil {
		tst.Fatal("Error parsing configuration:", err)
	}
	if len(config) != 3 || config[7] != 1 || config[8] != 1 || config[9] != 0 {
		tst.Error("wrong configuration:", config)
	}
}

func TestParseConfigErrors(tst *testing.T) {
	for _, in := range []string{
		"", "7", "7=2", "x=1", "7=y", "7=1,7=0",
	} {
		if _, err := ParseConfig(in); err == nil {
			tst.Errorf("expected parse error for %q", in)
		}
	}
}
