package demux

import (
	"fmt"

	"github.com/grailbio/base/file"
	"github.com/grailbio/haplotag/barcode"
	"github.com/grailbio/haplotag/encoding/fastq"
	"github.com/grailbio/haplotag/fanout"
)

// Kind is the assignment status of a destination.
type Kind int

const (
	// Unassigned receives pairs that cannot be attributed to a sample,
	// or, without a demultiplex file, to a molecule.
	Unassigned Kind = iota
	// Assigned receives fully assigned pairs when there is no
	// demultiplex file.
	Assigned
	// SampleAssigned receives the fully assigned pairs of a sample.
	SampleAssigned
	// SampleUnassigned receives pairs whose C code identifies a sample
	// but whose A, B or D code is missing.
	SampleUnassigned
)

// Destination identifies the pair of output files a read pair is
// written to.
type Destination struct {
	Kind Kind
	// Sample is set for SampleAssigned and SampleUnassigned.
	Sample string
}

func (d Destination) String() string {
	switch d.Kind {
	case Unassigned:
		return "unassigned"
	case Assigned:
		return "assigned"
	case SampleAssigned:
		return d.Sample
	case SampleUnassigned:
		return d.Sample + ".unassigned"
	}
	return fmt.Sprintf("Destination(%d,%s)", int(d.Kind), d.Sample)
}

// Router picks the destination of resolved read pairs.
type Router struct {
	// samples is nil when not demultiplexing.
	samples *barcode.SampleMap
}

// NewRouter creates a router. Samples may be nil.
func NewRouter(samples *barcode.SampleMap) Router {
	return Router{samples: samples}
}

// Route returns the destination of a read pair. Every pair has exactly
// one destination.
func (r Router) Route(res *Resolution) Destination {
	if r.samples == nil {
		if res.Assigned {
			return Destination{Kind: Assigned}
		}
		return Destination{Kind: Unassigned}
	}
	sample, ok := r.samples.Sample(res.Codes[barcode.C])
	switch {
	case !ok:
		return Destination{Kind: Unassigned}
	case res.Assigned:
		return Destination{Kind: SampleAssigned, Sample: sample}
	default:
		return Destination{Kind: SampleUnassigned, Sample: sample}
	}
}

// Destinations lists every destination the router can return.
func (r Router) Destinations() []Destination {
	dests := []Destination{{Kind: Unassigned}}
	if r.samples == nil {
		return append(dests, Destination{Kind: Assigned})
	}
	for _, s := range r.samples.Samples() {
		dests = append(dests,
			Destination{Kind: SampleAssigned, Sample: s},
			Destination{Kind: SampleUnassigned, Sample: s})
	}
	return dests
}

// OutputPath returns the path of the R1 (mate 1) or R2 (mate 2) file
// of dest. Empty name components are skipped.
func OutputPath(dir, label string, dest Destination, mate int) string {
	var name string
	add := func(part string) {
		if part == "" {
			return
		}
		if name != "" {
			name += "."
		}
		name += part
	}
	switch dest.Kind {
	case Unassigned:
		add("unassigned")
	case SampleAssigned:
		add(dest.Sample)
	case SampleUnassigned:
		add(dest.Sample)
		add("unassigned")
	}
	add(label)
	add(fmt.Sprintf("R%d", mate))
	add("fastq.gz")
	return file.Join(dir, name)
}

// outputs holds the R1 and R2 sinks of every destination.
type outputs map[Destination][2]*fanout.Sink

func openOutputs(pool *fanout.Pool, dir, label string, dests []Destination) (outputs, error) {
	outs := outputs{}
	for _, dest := range dests {
		var pair [2]*fanout.Sink
		for mate := range pair {
			s, err := pool.Open(OutputPath(dir, label, dest, mate+1))
			if err != nil {
				return nil, err
			}
			pair[mate] = s
		}
		outs[dest] = pair
	}
	return outs, nil
}

func (o outputs) enqueue(dest Destination, r1, r2 *fastq.Read) {
	pair, ok := o[dest]
	if !ok {
		panic(fmt.Sprintf("no output for destination %v", dest))
	}
	pair[0].Enqueue(r1)
	pair[1].Enqueue(r2)
}
