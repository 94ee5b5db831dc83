package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `(?:\s*,\s*` + paramPattern + `)*)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	twoQubitParamRegex   = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	measureRegex         = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*(\w+)\[(\d+)\];?$`)
	resetRegex           = regexp.MustCompile(`^reset\s+q\[(\d+)\];?$`)
	ifRegex              = regexp.MustCompile(`^if\s*\(\s*(\w+)(?:\[(\d+)\])?\s*==\s*(\d+)\s*\)\s+(\w+)\s+q\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
	cregRegex            = regexp.MustCompile(`creg\s+(\w+)\[(\d+)\]`)
	barrierRegex         = regexp.MustCompile(`^barrier\s+`)
)

// ToQASM generates QASM 2.0 output from the circuit. Qubits are emitted as a
// single flat q register and classical bits as a single flat c register;
// named allocation ranges appear as comments so the output stays mappable
// back to its registers.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.NumQubits, 1)
	numCbits := max(c.NumCbits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n", numCbits)
	for _, r := range c.QRegs {
		fmt.Fprintf(&sb, "// %s = q[%d..%d]\n", r.Name, r.Base, r.Base+r.Size-1)
	}
	for _, r := range c.CRegs {
		fmt.Fprintf(&sb, "// %s = c[%d..%d]\n", r.Name, r.Base, r.Base+r.Size-1)
	}
	sb.WriteString("\n")

	for step := 0; step < c.MaxSteps; step++ {
		for _, gate := range c.Gates {
			if gate.Step != step {
				continue
			}
			c.writeGate(&sb, gate, numQubits)
		}
	}
	return sb.String()
}

func (c *Circuit) writeGate(sb *strings.Builder, gate Gate, numQubits int) {
	switch {
	case gate.Type == "BARRIER":
		qubits := make([]string, numQubits)
		for q := 0; q < numQubits; q++ {
			qubits[q] = fmt.Sprintf("q[%d]", q)
		}
		fmt.Fprintf(sb, "barrier %s;\n", strings.Join(qubits, ", "))
	case gate.IsReset:
		fmt.Fprintf(sb, "reset q[%d];\n", gate.Target)
	case gate.ClassicalControl >= 0:
		gateType := strings.ToLower(gate.Type)
		if len(gate.Params) > 0 {
			fmt.Fprintf(sb, "if (c[%d]==1) %s(%s) q[%d];\n", gate.ClassicalControl, gateType, formatParam(gate.Params[0]), gate.Target)
		} else {
			fmt.Fprintf(sb, "if (c[%d]==1) %s q[%d];\n", gate.ClassicalControl, gateType, gate.Target)
		}
	case gate.Type == "MEASURE":
		fmt.Fprintf(sb, "measure q[%d] -> c[%d];\n", gate.Target, gate.Cbit)
	case gate.Control >= 0:
		gateType := strings.ToLower(gate.Type)
		switch gate.Type {
		case "CX", "CZ", "SWAP", "CH":
			fmt.Fprintf(sb, "%s q[%d], q[%d];\n", gateType, gate.Control, gate.Target)
		case "CRX", "CRY", "CRZ":
			if len(gate.Params) > 0 {
				fmt.Fprintf(sb, "%s(%s) q[%d], q[%d];\n", gateType, formatParam(gate.Params[0]), gate.Control, gate.Target)
			}
		case "CP", "CU1":
			if len(gate.Params) > 0 {
				fmt.Fprintf(sb, "cu1(%s) q[%d], q[%d];\n", formatParam(gate.Params[0]), gate.Control, gate.Target)
			}
		default:
			fmt.Fprintf(sb, "cx q[%d], q[%d];\n", gate.Control, gate.Target)
		}
	default:
		gateType := strings.ToLower(gate.Type)
		switch gateType {
		case "rx", "ry", "rz", "p", "u1":
			if len(gate.Params) > 0 {
				fmt.Fprintf(sb, "%s(%s) q[%d];\n", gateType, formatParam(gate.Params[0]), gate.Target)
			}
		case "s", "t":
			if gate.IsDagger {
				fmt.Fprintf(sb, "%sdg q[%d];\n", gateType, gate.Target)
			} else {
				fmt.Fprintf(sb, "%s q[%d];\n", gateType, gate.Target)
			}
		default:
			fmt.Fprintf(sb, "%s q[%d];\n", gateType, gate.Target)
		}
	}
}

// ParseQASM parses QASM 2.0 text and rebuilds the circuit from it. Named
// classical registers are tracked: "measure q[i] -> m[j]" lands on bit
// base(m)+j in the flat classical index space.
func (c *Circuit) ParseQASM(qasm string) error {
	c.Gates = nil
	c.MaxSteps = 0
	c.NumQubits = 0
	c.NumCbits = 0
	c.QRegs = nil
	c.CRegs = nil

	cregBase := map[string]int{}

	for _, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if m := qregRegex.FindStringSubmatch(line); m != nil {
				n, _ := strconv.Atoi(m[2])
				c.AllocQubits(m[1], n)
			}
			continue
		}
		if strings.HasPrefix(line, "creg") {
			if m := cregRegex.FindStringSubmatch(line); m != nil {
				n, _ := strconv.Atoi(m[2])
				cregBase[m[1]] = c.AllocBits(m[1], n)
			}
			continue
		}
		if barrierRegex.MatchString(line) || line == "barrier;" {
			c.Barrier()
			continue
		}

		// Measurement: "measure q[0] -> c[3];"
		if m := measureRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			idx, _ := strconv.Atoi(m[3])
			base, ok := cregBase[m[2]]
			if !ok {
				return errors.Errorf("measure into undeclared register %q", m[2])
			}
			c.Measure(q, base+idx)
			continue
		}

		if m := resetRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			c.Reset(q)
			continue
		}

		// Conditioned gates: "if (c[2]==1) x q[0];" or "if (flag==1) x q[0];"
		if m := ifRegex.FindStringSubmatch(line); m != nil {
			base, ok := cregBase[m[1]]
			if !ok {
				return errors.Errorf("condition on undeclared register %q", m[1])
			}
			cbit := base
			if m[2] != "" {
				idx, _ := strconv.Atoi(m[2])
				cbit = base + idx
			}
			gateType := strings.ToUpper(m[4])
			target, _ := strconv.Atoi(m[5])
			c.AddConditioned(gateType, target, cbit)
			continue
		}

		// Two-qubit gates: cx, cz, swap
		if m := twoQubitRegex.FindStringSubmatch(line); m != nil {
			gateType := strings.ToUpper(m[1])
			q1, _ := strconv.Atoi(m[2])
			q2, _ := strconv.Atoi(m[3])
			c.Add(gateType, q2, q1)
			continue
		}

		// Two-qubit parameterized gates (CRX, CRY, CRZ, CU1)
		if m := twoQubitParamRegex.FindStringSubmatch(line); m != nil {
			gateType := strings.ToUpper(m[1])
			param, okp := parseParamExpr(m[2])
			if !okp {
				return errors.Errorf("bad parameter %q in %q", m[2], line)
			}
			q1, _ := strconv.Atoi(m[3])
			q2, _ := strconv.Atoi(m[4])
			c.AddParameterized(gateType, q2, []float64{param}, q1)
			continue
		}

		// Single-qubit parameterized gates (RX, RY, RZ, P, U1)
		if m := singleGateParamRegex.FindStringSubmatch(line); m != nil {
			gateType := strings.ToUpper(m[1])
			target, _ := strconv.Atoi(m[3])
			var params []float64
			for _, pStr := range strings.Split(m[2], ",") {
				p, okp := parseParamExpr(strings.TrimSpace(pStr))
				if !okp {
					return errors.Errorf("bad parameter %q in %q", pStr, line)
				}
				params = append(params, p)
			}
			c.AddParameterized(gateType, target, params)
			continue
		}

		// Single-qubit gates, including dagger variants (sdg, tdg)
		if m := singleGateRegex.FindStringSubmatch(line); m != nil {
			gateType := strings.ToUpper(m[1])
			target, _ := strconv.Atoi(m[2])
			if strings.HasSuffix(gateType, "DG") {
				c.AddDagger(strings.TrimSuffix(gateType, "DG"), target)
			} else {
				c.Add(gateType, target)
			}
			continue
		}

		return errors.Errorf("unrecognized QASM line %q", line)
	}
	return nil
}
