package grammar

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// tomlRule and tomlGrammar mirror Grammar/Rule field-for-field; they exist
// only so the TOML tags can live somewhere other than the in-memory type
// every other package consumes (the same separation tqw/marshaledtypes.go
// draws between a wire-format struct and the domain type it unmarshals
// into).
type tomlRule struct {
	NonTerminal string   `toml:"nonterminal"`
	RHS         []string `toml:"rhs"`
}

type tomlGrammar struct {
	Terminals    []string   `toml:"terminals"`
	Nonterminals []string   `toml:"nonterminals"`
	Start        string     `toml:"start"`
	Rules        []tomlRule `toml:"rules"`
}

// LoadFile reads a Grammar from a TOML document at path (spec §6's input
// value, given a documented on-disk shape so a front-end can hand this
// engine a grammar without writing Go literals). It does not validate the
// result; call Validate or one of the table package's Build* entry points
// for that.
func LoadFile(path string) (Grammar, error) {
	var tg tomlGrammar
	if _, err := toml.DecodeFile(path, &tg); err != nil {
		return Grammar{}, fmt.Errorf("loading grammar from %s: %w", path, err)
	}

	g := Grammar{
		Terminals:    tg.Terminals,
		Nonterminals: tg.Nonterminals,
		Start:        tg.Start,
		Rules:        make([]Rule, len(tg.Rules)),
	}
	for i, r := range tg.Rules {
		g.Rules[i] = Rule{NonTerminal: r.NonTerminal, RHS: r.RHS}
	}
	return g, nil
}

// WriteFile writes g to path as a TOML document in the same shape LoadFile
// reads back.
func (g Grammar) WriteFile(path string) error {
	tg := tomlGrammar{
		Terminals:    g.Terminals,
		Nonterminals: g.Nonterminals,
		Start:        g.Start,
		Rules:        make([]tomlRule, len(g.Rules)),
	}
	for i, r := range g.Rules {
		tg.Rules[i] = tomlRule{NonTerminal: r.NonTerminal, RHS: r.RHS}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing grammar to %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tg); err != nil {
		return fmt.Errorf("writing grammar to %s: %w", path, err)
	}
	return nil
}
