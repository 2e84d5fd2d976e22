package validate

import (
	"strings"
	"testing"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/resolve"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

type stubComponent struct {
	kind pipeline.Kind
	name string
}

func (s *stubComponent) Kind() pipeline.Kind { return s.kind }
func (s *stubComponent) Name() string        { return s.name }

func stub(kind pipeline.Kind, name string, opts []schema.Option, requires ...pipeline.Kind) *schema.Registration {
	return &schema.Registration{
		Schema: schema.NewSchema(kind, name, opts, requires...),
		New: func(*input.Section) (pipeline.Component, error) {
			return &stubComponent{kind: kind, name: name}, nil
		},
	}
}

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	regs := []*schema.Registration{
		stub(pipeline.KindProblem, "energy", nil, pipeline.KindOperator),
		stub(pipeline.KindDriver, "HDF5", []schema.Option{
			{Name: "hdf5_input", Type: input.TypeString},
		}),
		stub(pipeline.KindOperator, "hamiltonian", []schema.Option{
			{
				Name:    "qubit_mapping",
				Type:    input.TypeString,
				Default: "parity",
				Allowed: []any{"jordan_wigner", "parity", "bravyi_kitaev"},
			},
			{Name: "two_qubit_reduction", Type: input.TypeBool, Default: true},
		}),
		stub(pipeline.KindAlgorithm, "ExactEigensolver", nil),
		stub(pipeline.KindBackend, "local_statevector_simulator", []schema.Option{
			{Name: "shots", Type: input.TypeInt, Default: int64(1)},
		}),
	}
	for _, r := range regs {
		if err := reg.Register(r); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	for kind, name := range map[pipeline.Kind]string{
		pipeline.KindProblem:   "energy",
		pipeline.KindOperator:  "hamiltonian",
		pipeline.KindAlgorithm: "ExactEigensolver",
		pipeline.KindBackend:   "local_statevector_simulator",
	} {
		if err := reg.SetDefault(kind, name); err != nil {
			t.Fatalf("default: %v", err)
		}
	}
	reg.Freeze()
	return reg
}

func resolveInput(t *testing.T, reg *schema.Registry, in string) *pipeline.Resolved {
	t.Helper()
	doc, err := input.ParseString(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := resolve.New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return res
}

// TestValidateCleanConfiguration tests that a fully defaulted input
// produces no validation errors
func TestValidateCleanConfiguration(t *testing.T) {
	reg := testRegistry(t)
	res := resolveInput(t, reg, "&DRIVER name=HDF5 &END\n&HDF5 hdf5_input=h2.json &END\n")

	if errs := New(reg).Validate(res); len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
}

// TestValidateMistypedKey tests that a typo like nam= surfaces as an
// unknown key, not a silent pass
func TestValidateMistypedKey(t *testing.T) {
	reg := testRegistry(t)
	res := resolveInput(t, reg, `&DRIVER name=HDF5 &END
&HDF5 hdf5_input=h2.json &END
&BACKEND
  name=local_statevector_simulator
  nam=typo
&END
`)

	errs := New(reg).Validate(res)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Section != "BACKEND" || errs[0].Key != "nam" {
		t.Errorf("error at %s.%s, want BACKEND.nam", errs[0].Section, errs[0].Key)
	}
	if !strings.Contains(errs[0].Message, "unknown key") {
		t.Errorf("message %q does not report an unknown key", errs[0].Message)
	}
}

// TestValidateTypeMismatch tests expected/actual reporting for a wrongly
// typed value
func TestValidateTypeMismatch(t *testing.T) {
	reg := testRegistry(t)
	res := resolveInput(t, reg, `&DRIVER name=HDF5 &END
&HDF5 hdf5_input=h2.json &END
&BACKEND
  name=local_statevector_simulator
  shots=many
&END
`)

	errs := New(reg).Validate(res)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Expected != "int" || errs[0].Actual != "string" {
		t.Errorf("expected/actual = %s/%s, want int/string", errs[0].Expected, errs[0].Actual)
	}
}

// TestValidateEnumViolation tests allowed-value enforcement
func TestValidateEnumViolation(t *testing.T) {
	reg := testRegistry(t)
	res := resolveInput(t, reg, `&DRIVER name=HDF5 &END
&HDF5 hdf5_input=h2.json &END
&OPERATOR
  name=hamiltonian
  qubit_mapping=paritty
&END
`)

	errs := New(reg).Validate(res)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Section != "OPERATOR" || errs[0].Key != "qubit_mapping" {
		t.Errorf("error at %s.%s", errs[0].Section, errs[0].Key)
	}
	if !strings.Contains(errs[0].Expected, "parity") {
		t.Errorf("expected %q does not list the enumeration", errs[0].Expected)
	}
}

// TestValidateCollectsAllErrors tests that every violation is reported in
// one pass
func TestValidateCollectsAllErrors(t *testing.T) {
	reg := testRegistry(t)
	res := resolveInput(t, reg, `&DRIVER name=HDF5 &END
&HDF5
  hdf5_input=h2.json
  basis=sto3g
&END
&OPERATOR
  name=hamiltonian
  qubit_mapping=paritty
  two_qubit_reduction=maybe
&END
&BACKEND
  name=local_statevector_simulator
  nam=typo
&END
`)

	errs := New(reg).Validate(res)
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), errs)
	}
}

// TestValidateDriverSelector tests that DRIVER admits only the name key
func TestValidateDriverSelector(t *testing.T) {
	reg := testRegistry(t)
	res := resolveInput(t, reg, `&DRIVER
  name=HDF5
  hdf5_input=wrong-place.json
&END
&HDF5 hdf5_input=h2.json &END
`)

	errs := New(reg).Validate(res)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Section != "DRIVER" || errs[0].Key != "hdf5_input" {
		t.Errorf("error at %s.%s, want DRIVER.hdf5_input", errs[0].Section, errs[0].Key)
	}
}

// TestValidateSkipsFreeSections tests NAME and unknown sections are never
// validated
func TestValidateSkipsFreeSections(t *testing.T) {
	reg := testRegistry(t)
	res := resolveInput(t, reg, `&NAME some experiment &END
&DRIVER name=HDF5 &END
&HDF5 hdf5_input=h2.json &END
&SCRATCH anything=goes here=too &END
`)

	if errs := New(reg).Validate(res); len(errs) != 0 {
		t.Fatalf("free sections were validated: %v", errs)
	}
}
