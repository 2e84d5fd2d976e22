package plugins

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	chem "github.com/rmera/gochem"
	"gonum.org/v1/gonum/mat"

	"github.com/quantpipe/quantpipe/pkg/chemistry"
	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// hdf5Magic is the signature native HDF5 containers open with.
var hdf5Magic = []byte("\x89HDF\r\n\x1a\n")

// moleculeDump is the serialized molecule format the HDF5 driver reads: a
// JSON export of a precomputed molecule, integrals included. Native binary
// HDF5 containers are recognized and rejected with a pointer to the
// exporter, since no pure-Go HDF5 reader exists.
type moleculeDump struct {
	Symbols          []string     `json:"symbols,omitempty"`
	Coords           [][3]float64 `json:"coords,omitempty"`
	Charge           int          `json:"charge"`
	Multiplicity     int          `json:"multiplicity"`
	Orbitals         int          `json:"num_orbitals"`
	Electrons        int          `json:"num_electrons"`
	OneBody          []float64    `json:"one_body"`
	TwoBody          []float64    `json:"two_body,omitempty"`
	NuclearRepulsion float64      `json:"nuclear_repulsion"`
}

func (d *moleculeDump) toProblem(source string) (*chemistry.Problem, error) {
	if d.Orbitals <= 0 {
		return nil, fmt.Errorf("molecule dump: num_orbitals %d not positive", d.Orbitals)
	}
	if len(d.OneBody) != d.Orbitals*d.Orbitals {
		return nil, fmt.Errorf("molecule dump: one_body length %d, want %d", len(d.OneBody), d.Orbitals*d.Orbitals)
	}
	set := &chemistry.IntegralSet{
		Orbitals:         d.Orbitals,
		Electrons:        d.Electrons,
		OneBody:          mat.NewSymDense(d.Orbitals, d.OneBody),
		TwoBody:          d.TwoBody,
		NuclearRepulsion: d.NuclearRepulsion,
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	p := &chemistry.Problem{
		Geometry: &chemistry.Geometry{
			Symbols:      d.Symbols,
			Coords:       d.Coords,
			Charge:       d.Charge,
			Multiplicity: d.Multiplicity,
		},
		Integrals: set,
		Source:    source,
	}
	return p, nil
}

// hdf5Driver loads a precomputed molecule file.
type hdf5Driver struct {
	component
	path string
}

func hdf5Schema() *schema.Schema {
	return schema.NewSchema(pipeline.KindDriver, "HDF5", []schema.Option{
		{Name: "hdf5_input", Type: input.TypeString},
	})
}

func newHDF5Driver(params *input.Section) (pipeline.Component, error) {
	path, ok := params.GetString("hdf5_input")
	if !ok || path == "" {
		return nil, fmt.Errorf("HDF5 driver: hdf5_input is required")
	}
	return &hdf5Driver{
		component: component{kind: pipeline.KindDriver, name: "HDF5"},
		path:      path,
	}, nil
}

func (d *hdf5Driver) Load(_ context.Context) (*chemistry.Problem, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("HDF5 driver: %w", err)
	}
	if bytes.HasPrefix(data, hdf5Magic) {
		return nil, fmt.Errorf("HDF5 driver: %s is a native HDF5 container; export it to a JSON molecule dump first", d.path)
	}
	var dump moleculeDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("HDF5 driver: malformed molecule dump %s: %w", d.path, err)
	}
	return dump.toProblem(d.path)
}

// inlineDriver builds its integral set from section values, with no file
// involved. Useful for small systems and for tests.
type inlineDriver struct {
	component
	params *input.Section
}

func inlineSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindDriver, "INLINE", []schema.Option{
		{Name: "orbitals", Type: input.TypeInt},
		{Name: "electrons", Type: input.TypeInt},
		{Name: "one_body", Type: input.TypeList},
		{Name: "two_body", Type: input.TypeList},
		{Name: "nuclear_repulsion", Type: input.TypeFloat, Default: float64(0)},
		{Name: "symbols", Type: input.TypeList},
	})
}

func newInlineDriver(params *input.Section) (pipeline.Component, error) {
	return &inlineDriver{
		component: component{kind: pipeline.KindDriver, name: "INLINE"},
		params:    params.Clone(),
	}, nil
}

func (d *inlineDriver) Load(_ context.Context) (*chemistry.Problem, error) {
	orbitals := intParam(d.params, "orbitals", 0)
	electrons := intParam(d.params, "electrons", 0)
	oneBody, err := floatSlice(d.params, "one_body")
	if err != nil {
		return nil, fmt.Errorf("INLINE driver: %w", err)
	}
	if oneBody == nil {
		return nil, fmt.Errorf("INLINE driver: one_body is required")
	}
	if len(oneBody) != orbitals*orbitals {
		return nil, fmt.Errorf("INLINE driver: one_body length %d, want %d", len(oneBody), orbitals*orbitals)
	}
	twoBody, err := floatSlice(d.params, "two_body")
	if err != nil {
		return nil, fmt.Errorf("INLINE driver: %w", err)
	}
	symbols, err := stringSlice(d.params, "symbols")
	if err != nil {
		return nil, fmt.Errorf("INLINE driver: %w", err)
	}

	set := &chemistry.IntegralSet{
		Orbitals:         orbitals,
		Electrons:        electrons,
		OneBody:          mat.NewSymDense(orbitals, oneBody),
		TwoBody:          twoBody,
		NuclearRepulsion: floatParam(d.params, "nuclear_repulsion", 0),
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("INLINE driver: %w", err)
	}
	return &chemistry.Problem{
		Geometry:  &chemistry.Geometry{Symbols: symbols},
		Integrals: set,
		Source:    "inline",
	}, nil
}

// xyzDriver reads a molecular geometry from an XYZ file. It supplies no
// integrals; the selected runtime must bring its own integral engine.
type xyzDriver struct {
	component
	path         string
	charge       int
	multiplicity int
}

func xyzSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindDriver, "XYZ", []schema.Option{
		{Name: "xyz_file", Type: input.TypeString},
		{Name: "charge", Type: input.TypeInt, Default: int64(0)},
		{Name: "multiplicity", Type: input.TypeInt, Default: int64(1)},
	})
}

func newXYZDriver(params *input.Section) (pipeline.Component, error) {
	path, ok := params.GetString("xyz_file")
	if !ok || path == "" {
		return nil, fmt.Errorf("XYZ driver: xyz_file is required")
	}
	return &xyzDriver{
		component:    component{kind: pipeline.KindDriver, name: "XYZ"},
		path:         path,
		charge:       intParam(params, "charge", 0),
		multiplicity: intParam(params, "multiplicity", 1),
	}, nil
}

func (d *xyzDriver) Load(_ context.Context) (*chemistry.Problem, error) {
	mol, err := chem.XYZFileRead(d.path)
	if err != nil {
		return nil, fmt.Errorf("XYZ driver: %w", err)
	}
	if len(mol.Coords) == 0 {
		return nil, fmt.Errorf("XYZ driver: %s has no coordinate frame", d.path)
	}
	coords := mol.Coords[0]
	n := mol.Len()
	geo := &chemistry.Geometry{
		Symbols:      make([]string, n),
		Coords:       make([][3]float64, n),
		Charge:       d.charge,
		Multiplicity: d.multiplicity,
	}
	for i := 0; i < n; i++ {
		geo.Symbols[i] = mol.Atom(i).Symbol
		geo.Coords[i] = [3]float64{coords.At(i, 0), coords.At(i, 1), coords.At(i, 2)}
	}
	return &chemistry.Problem{Geometry: geo, Source: d.path}, nil
}
