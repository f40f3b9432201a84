// Package genome stores basic properties of the chromosomes of a genome:
// size, sort order, and the offset of each chromosome when all chromosomes
// are concatenated in sort order.
package genome

import (
	"fmt"
	"sort"
)

type Genome struct {
	name    string
	chroms  []string
	size    map[string]int64
	order   map[string]int
	offset  map[string]int64
}

// New builds a genome from parallel chromosome and size lists. The
// chromosome list is the desired sort order.
func New(name string, chroms []string, sizes []int64) (*Genome, error) {
	if len(chroms) != len(sizes) {
		return nil, fmt.Errorf("genome %s: %d chromosomes but %d sizes", name, len(chroms), len(sizes))
	}
	g := &Genome{
		name:   name,
		chroms: append([]string(nil), chroms...),
		size:   make(map[string]int64, len(chroms)),
		order:  make(map[string]int, len(chroms)),
		offset: make(map[string]int64, len(chroms)),
	}
	var off int64
	for i, c := range chroms {
		if _, dup := g.size[c]; dup {
			return nil, fmt.Errorf("genome %s: duplicate chromosome %s", name, c)
		}
		if sizes[i] <= 0 {
			return nil, fmt.Errorf("genome %s: chromosome %s has non-positive size %d", name, c, sizes[i])
		}
		g.size[c] = sizes[i]
		g.order[c] = i
		g.offset[c] = off
		off += sizes[i]
	}
	return g, nil
}

func (g *Genome) Name() string { return g.name }

// Chromosomes returns the chromosome names in sort order.
func (g *Genome) Chromosomes() []string {
	return append([]string(nil), g.chroms...)
}

// Size returns the length of chrom.
func (g *Genome) Size(chrom string) (int64, error) {
	s, ok := g.size[chrom]
	if !ok {
		return 0, g.unknown(chrom)
	}
	return s, nil
}

// Order returns the sort order index of chrom.
func (g *Genome) Order(chrom string) (int, error) {
	o, ok := g.order[chrom]
	if !ok {
		return 0, g.unknown(chrom)
	}
	return o, nil
}

// Offset returns the 0-based offset of the start of chrom in the
// concatenated genome.
func (g *Genome) Offset(chrom string) (int64, error) {
	o, ok := g.offset[chrom]
	if !ok {
		return 0, g.unknown(chrom)
	}
	return o, nil
}

// CPos maps a 0-based position on chrom to the 0-based position in the
// concatenated genome.
func (g *Genome) CPos(chrom string, pos int64) (int64, error) {
	o, ok := g.offset[chrom]
	if !ok {
		return 0, g.unknown(chrom)
	}
	return o + pos, nil
}

// CPos1 is CPos for a 1-based position; the result is still 0-based.
func (g *Genome) CPos1(chrom string, pos int64) (int64, error) {
	return g.CPos(chrom, pos-1)
}

// CPos2Chrom maps a 0-based position in the concatenated genome back to a
// chromosome and a 0-based position on it.
func (g *Genome) CPos2Chrom(cpos int64) (string, int64, error) {
	if cpos < 0 {
		return "", 0, fmt.Errorf("genome %s: negative concatenated position %d", g.name, cpos)
	}
	var chrom string
	var off int64
	for _, c := range g.chroms {
		if cpos >= g.offset[c] {
			chrom = c
			off = g.offset[c]
		} else {
			break
		}
	}
	return chrom, cpos - off, nil
}

func (g *Genome) unknown(chrom string) error {
	return fmt.Errorf("genome %s has no chromosome %s", g.name, chrom)
}

var genomes = make(map[string]*Genome)

// Register makes g available to Lookup. Registering over an existing name
// is an error so a config file cannot silently replace a builtin table.
func Register(g *Genome) error {
	if _, exists := genomes[g.name]; exists {
		return fmt.Errorf("genome %s already registered", g.name)
	}
	genomes[g.name] = g
	return nil
}

// Lookup returns the genome registered under name.
func Lookup(name string) (*Genome, bool) {
	g, ok := genomes[name]
	return g, ok
}

// Names lists the registered genome names, sorted.
func Names() []string {
	out := make([]string, 0, len(genomes))
	for n := range genomes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
