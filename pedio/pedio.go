// Package pedio reads pedigree records and carrier configurations
// from text input. Structural validation of the pedigree itself
// happens in the pedigree package.
package pedio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SFUStatgen/TJ2022/genotype"
	"github.com/SFUStatgen/TJ2022/likelihood"
	"github.com/SFUStatgen/TJ2022/pedigree"
)

// ParsePed reads whitespace-separated pedigree records, one individual
// per line:
//
//	id father mother sex affected dna
//
// A father or mother of 0 means the parent is not recorded; sex is 0
// (unknown), 1 (male) or 2 (female); affected and dna are 0/1 flags.
// '#' starts a comment, blank lines are skipped.
func ParsePed(rd io.Reader) ([]pedigree.Individual, error) {
	scanner := bufio.NewScanner(rd)
	var members []pedigree.Individual
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 6 {
			return nil, fmt.Errorf("line %d: expected 6 fields, got %d", lineNo, len(fields))
		}
		var v [6]int
		for i, field := range fields {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			v[i] = n
		}
		if v[3] < 0 || v[3] > 2 {
			return nil, fmt.Errorf("line %d: sex must be 0, 1 or 2", lineNo)
		}
		for _, flag := range v[4:6] {
			if flag != 0 && flag != 1 {
				return nil, fmt.Errorf("line %d: flags must be 0 or 1", lineNo)
			}
		}
		members = append(members, pedigree.Individual{
			ID:           v[0],
			FatherID:     v[1],
			MotherID:     v[2],
			Sex:          pedigree.Sex(v[3]),
			Affected:     v[4] == 1,
			DNAAvailable: v[5] == 1,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// ParseConfig parses a carrier configuration of the form
// "id=state,id=state" with states 0 (non-carrier) or 1 (carrier).
func ParseConfig(s string) (likelihood.Config, error) {
	config := likelihood.Config{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("bad configuration entry %q", part)
		}
		id, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil {
			return nil, fmt.Errorf("bad identifier in %q: %v", part, err)
		}
		state, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("bad state in %q: %v", part, err)
		}
		if state != 0 && state != 1 {
			return nil, fmt.Errorf("state for individual %d must be 0 or 1", id)
		}
		if _, ok := config[id]; ok {
			return nil, fmt.Errorf("individual %d configured twice", id)
		}
		config[id] = genotype.State(state)
	}
	if len(config) == 0 {
		return nil, errors.New("empty configuration")
	}
	return config, nil
}
