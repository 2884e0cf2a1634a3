// Package commands resolves shell command names and aliases to handlers and
// suggests near misses for unknown names.
package commands

import (
	"cmp"
	"io"
	"maps"
	"slices"

	"github.com/agnivade/levenshtein"
)

// MaxSuggestDistance is the largest edit distance Suggest will accept.
const MaxSuggestDistance = 2

// Command is a named built-in. Usage defaults to Name.
type Command struct {
	Name        string
	Description string
	Usage       string
	Aliases     []string
	Run         func(env Env, args []string) error
}

// Env is handed to a running command.
type Env struct {
	Out      io.Writer
	Registry *Registry
}

type Metadata struct {
	Name        string
	Description string
	Usage       string
}

type Registry struct {
	commands map[string]Command
	aliases  map[string]string
}

func NewRegistry(cmds ...Command) *Registry {
	reg := &Registry{commands: map[string]Command{}, aliases: map[string]string{}}
	for _, c := range cmds {
		reg.Register(c)
	}
	return reg
}

// Register adds c. A later command with the same name or alias wins.
func (r *Registry) Register(c Command) {
	if c.Name == "" {
		return
	}
	if c.Usage == "" {
		c.Usage = c.Name
	}
	r.commands[c.Name] = c
	for _, a := range c.Aliases {
		r.aliases[a] = c.Name
	}
}

// Lookup resolves a canonical name first, then an alias.
func (r *Registry) Lookup(name string) (Command, bool) {
	if c, ok := r.commands[name]; ok {
		return c, true
	}
	if real, ok := r.aliases[name]; ok {
		c, ok := r.commands[real]
		return c, ok
	}
	return Command{}, false
}

// Execute runs the named command. It reports false when nothing matched; the
// error is the command's own.
func (r *Registry) Execute(w io.Writer, name string, args []string) (bool, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return false, nil
	}
	if c.Run == nil {
		return true, nil
	}
	return true, c.Run(Env{Out: w, Registry: r}, args)
}

// Names returns canonical names in lexicographic order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.commands))
}

func (r *Registry) Metadata() []Metadata {
	out := make([]Metadata, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, Metadata{Name: c.Name, Description: c.Description, Usage: c.Usage})
	}
	slices.SortFunc(out, func(a, b Metadata) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Suggest returns the canonical name closest to unknown by edit distance.
// Ties go to the lexicographically smallest name. Nothing further than
// MaxSuggestDistance is suggested.
func (r *Registry) Suggest(unknown string) (string, bool) {
	best, bestDist := "", -1
	for _, name := range r.Names() {
		d := levenshtein.ComputeDistance(unknown, name)
		if bestDist < 0 || d < bestDist {
			best, bestDist = name, d
		}
	}
	if bestDist < 0 || bestDist > MaxSuggestDistance {
		return "", false
	}
	return best, true
}
