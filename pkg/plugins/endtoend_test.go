package plugins

import (
	"context"
	"math"
	"testing"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/resolve"
	"github.com/quantpipe/quantpipe/pkg/validate"
)

const h2Input = `
&NAME
H2 ground state
&END

&DRIVER
  name = INLINE
&END

&INLINE
  orbitals = 2
  electrons = 2
  one_body = [-1.252477, 0.0, 0.0, -0.475934]
  nuclear_repulsion = 0.719969
&END

&OPERATOR
  name = hamiltonian
  qubit_mapping = parity
&END

&ALGORITHM
  name = ExactEigensolver
&END

&BACKEND
  name = local_statevector_simulator
&END
`

// TestRunH2 drives a complete configuration through resolution, validation
// and invocation and checks the resulting energy.
func TestRunH2(t *testing.T) {
	reg := builtinRegistry(t)

	doc, err := input.ParseString(h2Input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	res, err := resolve.New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if errs := validate.New(reg).Validate(res); len(errs) != 0 {
		t.Fatalf("validation failed: %v", errs)
	}

	result, err := pipeline.NewInvoker(reg).Invoke(context.Background(), res)
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}

	// Two electrons in the lowest one-body level plus nuclear repulsion.
	wantElectronic := 2 * -1.252477
	want := wantElectronic + 0.719969
	energy, ok := result["energy"].(float64)
	if !ok {
		t.Fatalf("result carries no energy: %v", result)
	}
	if math.Abs(energy-want) > 1e-9 {
		t.Errorf("energy = %v, want %v", energy, want)
	}
	if result["algorithm"] != "ExactEigensolver" {
		t.Errorf("algorithm = %v", result["algorithm"])
	}
	if result["runtime"] != "localsim/statevector" {
		t.Errorf("runtime = %v", result["runtime"])
	}
	if result["converged"] != true {
		t.Errorf("converged = %v", result["converged"])
	}
}

// TestResolveMinimalWithBuiltins mirrors the smallest usable input: driver
// and companion only, everything else defaulted.
func TestResolveMinimalWithBuiltins(t *testing.T) {
	reg := builtinRegistry(t)

	doc, err := input.ParseString(`
&DRIVER
  name = INLINE
&END
&INLINE
  orbitals = 1
  electrons = 1
  one_body = [-0.5]
&END
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	res, err := resolve.New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if res.Problem != "energy" || res.Algorithm != "VQE" {
		t.Errorf("resolved problem/algorithm = %s/%s", res.Problem, res.Algorithm)
	}
	if res.Backend != "local_statevector_simulator" {
		t.Errorf("resolved backend = %s", res.Backend)
	}
	// VQE pulls in its three companions.
	for _, kind := range []pipeline.Kind{
		pipeline.KindOptimizer, pipeline.KindVariationalForm, pipeline.KindInitialState,
	} {
		sec, ok := res.Section(kind)
		if !ok {
			t.Errorf("companion %s not synthesized", kind)
			continue
		}
		if _, ok := sec.GetString(pipeline.NameKey); !ok {
			t.Errorf("companion %s has no name", kind)
		}
	}
	if errs := validate.New(reg).Validate(res); len(errs) != 0 {
		t.Errorf("defaulted configuration does not validate: %v", errs)
	}
}

// TestRunVQEUnsupportedOnReference pins the reference runtime's behavior
// for variational runs.
func TestRunVQEUnsupportedOnReference(t *testing.T) {
	reg := builtinRegistry(t)

	doc, err := input.ParseString(`
&DRIVER
  name = INLINE
&END
&INLINE
  orbitals = 1
  electrons = 1
  one_body = [-0.5]
&END
&ALGORITHM
  name = VQE
&END
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	res, err := resolve.New(reg).Resolve(doc)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if errs := validate.New(reg).Validate(res); len(errs) != 0 {
		t.Fatalf("validation failed: %v", errs)
	}
	if _, err := pipeline.NewInvoker(reg).Invoke(context.Background(), res); err == nil {
		t.Fatal("VQE ran on the reference runtime")
	}
}
