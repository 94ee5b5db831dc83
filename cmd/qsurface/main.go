package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qsurface/circuit"
	"qsurface/config"
	"qsurface/sim"
	"qsurface/surface"
)

func main() {
	configPath := flag.String("config", "", "YAML run configuration (defaults to a d=3 XXZZ qubit)")
	qasmOut := flag.String("qasm", "", "write the assembled circuit as QASM 2.0 to this file")
	simPath := flag.String("sim", "", "simulate a QASM 2.0 file instead of building a lattice run")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	if *simPath != "" {
		if err := runQASM(logger, *simPath); err != nil {
			logger.Fatal("simulation failed", zap.Error(err))
		}
		return
	}

	if err := run(logger, *configPath, *qasmOut); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

// run assembles the configured lattice circuit, executes it as one shot and
// prints the decoder-facing readout to stdout.
func run(logger *zap.Logger, configPath, qasmOut string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	circ := &circuit.Circuit{}
	q, err := surface.NewQubit(cfg.Code, "tq", cfg.Distance.H, cfg.Distance.W, circ)
	if err != nil {
		return err
	}
	geo := q.Geometry()
	logger.Info("lattice built",
		zap.String("code", cfg.Code),
		zap.Int("dh", cfg.Distance.H),
		zap.Int("dw", cfg.Distance.W),
		zap.Int("data_qubits", geo.NumData()),
		zap.Int("syn_x", geo.NumSyn(surface.MX)),
		zap.Int("syn_z", geo.NumSyn(surface.MZ)))

	axis := surface.Axis(cfg.Axis)
	if axis == surface.AxisX {
		q.ResetX()
	} else {
		q.ResetZ()
	}
	for i := 0; i < cfg.Rounds; i++ {
		q.Stabilize()
	}
	if axis == surface.AxisX {
		q.LatticeReadoutX()
	} else {
		q.LatticeReadoutZ()
	}

	if cfg.Compact {
		before := circ.Depth()
		circ.Compact()
		logger.Info("schedule compacted", zap.Int("depth_before", before), zap.Int("depth_after", circ.Depth()))
	}
	if qasmOut != "" {
		if err := os.WriteFile(qasmOut, []byte(circ.ToQASM()), 0o644); err != nil {
			return err
		}
		logger.Info("wrote QASM", zap.String("path", qasmOut))
	}

	res, err := sim.Run(circ, cfg.Seed)
	if err != nil {
		return err
	}
	readout, err := q.FormatReadout(res.Cbits)
	if err != nil {
		return err
	}
	logger.Debug("raw readout", zap.String("readout", readout))

	logical, events, err := q.ParseReadout(readout, axis)
	if err != nil {
		return err
	}
	logger.Info("readout parsed",
		zap.Int("logical", logical),
		zap.Int("events_x", len(events[surface.AxisX])),
		zap.Int("events_z", len(events[surface.AxisZ])))

	out := struct {
		Logical int                              `json:"logical_readout"`
		Events  map[surface.Axis][]surface.Event `json:"syndromes"`
	}{Logical: logical, Events: events}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runQASM loads an arbitrary QASM 2.0 file, executes one shot and prints the
// per-qubit marginals and classical bits.
func runQASM(logger *zap.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	circ := &circuit.Circuit{}
	if err := circ.ParseQASM(string(raw)); err != nil {
		return err
	}
	circ.Compact()
	logger.Info("parsed QASM",
		zap.String("path", path),
		zap.Int("qubits", circ.NumQubits),
		zap.Int("gates", len(circ.Gates)),
		zap.Int("depth", circ.Depth()))

	res, err := sim.Run(circ, 1)
	if err != nil {
		return err
	}
	for q, p := range res.State.Probabilities() {
		fmt.Printf("q[%d]: P(0)=%.4f P(1)=%.4f\n", q, p.Prob0, p.Prob1)
	}
	fmt.Printf("cbits: %v\n", res.Cbits)
	return nil
}
