package resolve

import (
	"strings"
	"testing"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
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

// testRegistry builds a small registry that mirrors the builtin layout:
// an energy problem pulling in an operator, a VQE-like algorithm with
// three companions, a direct solver with none, and one driver.
func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	regs := []*schema.Registration{
		stub(pipeline.KindProblem, "energy", nil, pipeline.KindOperator),
		stub(pipeline.KindDriver, "HDF5", []schema.Option{
			{Name: "hdf5_input", Type: input.TypeString},
		}),
		stub(pipeline.KindOperator, "hamiltonian", []schema.Option{
			{Name: "qubit_mapping", Type: input.TypeString, Default: "parity"},
		}),
		stub(pipeline.KindAlgorithm, "VQE", nil,
			pipeline.KindOptimizer, pipeline.KindVariationalForm, pipeline.KindInitialState),
		stub(pipeline.KindAlgorithm, "ExactEigensolver", nil),
		stub(pipeline.KindOptimizer, "L_BFGS_B", []schema.Option{
			{Name: "maxiter", Type: input.TypeInt, Default: int64(1000)},
		}),
		stub(pipeline.KindVariationalForm, "RY", []schema.Option{
			{Name: "depth", Type: input.TypeInt, Default: int64(3)},
		}),
		stub(pipeline.KindInitialState, "ZERO", nil),
		stub(pipeline.KindBackend, "local_statevector_simulator", nil),
	}
	for _, r := range regs {
		if err := reg.Register(r); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	defaults := map[pipeline.Kind]string{
		pipeline.KindProblem:         "energy",
		pipeline.KindOperator:        "hamiltonian",
		pipeline.KindAlgorithm:       "VQE",
		pipeline.KindOptimizer:       "L_BFGS_B",
		pipeline.KindVariationalForm: "RY",
		pipeline.KindInitialState:    "ZERO",
		pipeline.KindBackend:         "local_statevector_simulator",
	}
	for kind, name := range defaults {
		if err := reg.SetDefault(kind, name); err != nil {
			t.Fatalf("default: %v", err)
		}
	}
	reg.Freeze()
	return reg
}

func mustParse(t *testing.T, in string) *input.Document {
	t.Helper()
	doc, err := input.ParseString(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// TestResolveMinimalInput tests that a driver-only input resolves to the
// full defaulted configuration
func TestResolveMinimalInput(t *testing.T) {
	reg := testRegistry(t)
	doc := mustParse(t, "&DRIVER name=HDF5 &END\n&HDF5 hdf5_input=h2_0.735_sto-3g.hdf5 &END\n")

	res, err := New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if res.Problem != "energy" || res.Algorithm != "VQE" || res.Driver != "HDF5" {
		t.Errorf("resolved %s/%s/%s, want energy/VQE/HDF5", res.Problem, res.Algorithm, res.Driver)
	}
	if res.Backend != "local_statevector_simulator" {
		t.Errorf("backend = %q", res.Backend)
	}

	for _, section := range []string{"PROBLEM", "DRIVER", "HDF5", "OPERATOR", "ALGORITHM",
		"OPTIMIZER", "VARIATIONAL_FORM", "INITIAL_STATE", "BACKEND"} {
		if _, ok := res.Doc.Section(section); !ok {
			t.Errorf("resolved configuration lacks section %s", section)
		}
	}

	if name, _ := res.ComponentName(pipeline.KindOptimizer); name != "L_BFGS_B" {
		t.Errorf("OPTIMIZER.name = %q, want the registered VQE default", name)
	}
	opSec, _ := res.Section(pipeline.KindOperator)
	if v, _ := opSec.Get("qubit_mapping"); v != "parity" {
		t.Errorf("OPERATOR.qubit_mapping = %v, want merged default", v)
	}
}

// TestResolveRegistryDefaultWins tests that a registered kind default
// overrides the built-in fallback names, even when the fallback
// implementation is not registered at all
func TestResolveRegistryDefaultWins(t *testing.T) {
	reg := schema.NewRegistry()
	regs := []*schema.Registration{
		stub(pipeline.KindProblem, "energy", nil),
		stub(pipeline.KindDriver, "HDF5", nil),
		stub(pipeline.KindAlgorithm, "ExactEigensolver", nil),
		stub(pipeline.KindBackend, "local_statevector_simulator", nil),
	}
	for _, r := range regs {
		if err := reg.Register(r); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	for kind, name := range map[pipeline.Kind]string{
		pipeline.KindProblem:   "energy",
		pipeline.KindAlgorithm: "ExactEigensolver",
		pipeline.KindBackend:   "local_statevector_simulator",
	} {
		if err := reg.SetDefault(kind, name); err != nil {
			t.Fatalf("default: %v", err)
		}
	}
	reg.Freeze()

	doc := mustParse(t, "&DRIVER name=HDF5 &END\n&HDF5 &END\n")
	res, err := New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Algorithm != "ExactEigensolver" {
		t.Errorf("algorithm = %q, want the registered default ExactEigensolver", res.Algorithm)
	}
}

// TestResolveMissingDriver tests the hard failure when DRIVER is absent
func TestResolveMissingDriver(t *testing.T) {
	reg := testRegistry(t)
	doc := mustParse(t, "&ALGORITHM name=VQE &END\n")

	_, err := New(reg).Resolve(doc)
	if !pipeline.IsResolution(err) {
		t.Fatalf("got %v, want a resolution error", err)
	}
	if !strings.Contains(err.Error(), "DRIVER") {
		t.Errorf("error %q does not name DRIVER", err)
	}
}

// TestResolveMissingCompanion tests that a driver without its companion
// section fails
func TestResolveMissingCompanion(t *testing.T) {
	reg := testRegistry(t)
	doc := mustParse(t, "&DRIVER name=HDF5 &END\n")

	_, err := New(reg).Resolve(doc)
	if !pipeline.IsResolution(err) {
		t.Fatalf("got %v, want a resolution error", err)
	}
	if !strings.Contains(err.Error(), "HDF5") {
		t.Errorf("error %q does not name the companion section", err)
	}
}

// TestResolveUnknownComponent tests that an unregistered name fails
func TestResolveUnknownComponent(t *testing.T) {
	reg := testRegistry(t)
	doc := mustParse(t, `&DRIVER name=HDF5 &END
&HDF5 hdf5_input=x &END
&ALGORITHM name=QAOA &END
`)

	_, err := New(reg).Resolve(doc)
	if !pipeline.IsUnknownComponent(err) {
		t.Fatalf("got %v, want an unknown-component error", err)
	}
}

// TestResolveNoCompanionSynthesis tests that an algorithm without
// requirements pulls in no variational companions
func TestResolveNoCompanionSynthesis(t *testing.T) {
	reg := testRegistry(t)
	doc := mustParse(t, `&DRIVER name=HDF5 &END
&HDF5 hdf5_input=x &END
&ALGORITHM name=ExactEigensolver &END
`)

	res, err := New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	for _, section := range []string{"OPTIMIZER", "VARIATIONAL_FORM", "INITIAL_STATE"} {
		if _, ok := res.Doc.Section(section); ok {
			t.Errorf("section %s synthesized for an algorithm that does not require it", section)
		}
	}
	if _, ok := res.Doc.Section("BACKEND"); !ok {
		t.Error("BACKEND not synthesized")
	}
}

// TestResolveUserCompanionKept tests that a user-specified companion for an
// algorithm that does not require it still resolves
func TestResolveUserCompanionKept(t *testing.T) {
	reg := testRegistry(t)
	doc := mustParse(t, `&DRIVER name=HDF5 &END
&HDF5 hdf5_input=x &END
&ALGORITHM name=ExactEigensolver &END
&OPTIMIZER name=L_BFGS_B maxiter=5 &END
`)

	res, err := New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	sec, ok := res.Doc.Section("OPTIMIZER")
	if !ok {
		t.Fatal("user OPTIMIZER section dropped")
	}
	if v, _ := sec.Get("maxiter"); v != int64(5) {
		t.Errorf("user maxiter = %v, want 5", v)
	}
}

// TestResolvePassThrough tests NAME and unknown sections survive untouched
func TestResolvePassThrough(t *testing.T) {
	reg := testRegistry(t)
	doc := mustParse(t, `&NAME h2 experiment &END
&DRIVER name=HDF5 &END
&HDF5 hdf5_input=x &END
&CUSTOM_NOTES lab=basement &END
`)

	res, err := New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	nameSec, ok := res.Doc.Section("NAME")
	if !ok || nameSec.Text != "h2 experiment" {
		t.Errorf("NAME section not preserved: %v", nameSec)
	}
	custom, ok := res.Doc.Section("CUSTOM_NOTES")
	if !ok {
		t.Fatal("unknown section dropped")
	}
	if v, _ := custom.GetString("lab"); v != "basement" {
		t.Errorf("unknown section content changed: %q", v)
	}
}

// TestResolveIdempotent tests that resolving a resolved document is a
// no-op
func TestResolveIdempotent(t *testing.T) {
	reg := testRegistry(t)
	doc := mustParse(t, `&DRIVER name=HDF5 &END
&HDF5 hdf5_input=x &END
&OPTIMIZER maxiter=7 &END
`)

	first, err := New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	second, err := New(reg).Resolve(first.Doc)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if !first.Doc.Equal(second.Doc) {
		t.Fatalf("resolution is not idempotent:\n%s\nvs\n%s", first.Doc, second.Doc)
	}
}

// TestResolveRequirementCycle tests cycle detection across requirement
// declarations
func TestResolveRequirementCycle(t *testing.T) {
	reg := schema.NewRegistry()
	regs := []*schema.Registration{
		stub(pipeline.KindProblem, "energy", nil),
		stub(pipeline.KindDriver, "HDF5", nil),
		// OPTIMIZER requires VARIATIONAL_FORM which requires OPTIMIZER.
		stub(pipeline.KindAlgorithm, "VQE", nil, pipeline.KindOptimizer),
		stub(pipeline.KindOptimizer, "L_BFGS_B", nil, pipeline.KindVariationalForm),
		stub(pipeline.KindVariationalForm, "RY", nil, pipeline.KindOptimizer),
		stub(pipeline.KindBackend, "local_statevector_simulator", nil),
	}
	for _, r := range regs {
		if err := reg.Register(r); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	for kind, name := range map[pipeline.Kind]string{
		pipeline.KindProblem:         "energy",
		pipeline.KindAlgorithm:       "VQE",
		pipeline.KindOptimizer:       "L_BFGS_B",
		pipeline.KindVariationalForm: "RY",
		pipeline.KindBackend:         "local_statevector_simulator",
	} {
		if err := reg.SetDefault(kind, name); err != nil {
			t.Fatalf("default: %v", err)
		}
	}
	reg.Freeze()

	doc := mustParse(t, "&DRIVER name=HDF5 &END\n&HDF5 &END\n")
	_, err := New(reg).Resolve(doc)
	if !pipeline.IsResolution(err) {
		t.Fatalf("got %v, want a resolution error", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error %q does not report the cycle", err)
	}
}
