package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"solidcast/camera"
)

type simulateOptions struct {
	steps   int
	elapsed float64
	every   int
}

// frame is one printed simulation step.
type frame struct {
	Step int `json:"step"`
	camera.Snapshot
}

func newSimulateCommand() *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Walk the first-person camera through the scenario's input script",
		Long: `Run the first-person camera over the scenario's terrain and colliders,
feeding it the scripted input one frame at a time, and print its trajectory.`,
		Example: `  solidcast simulate -f scenario.yaml --steps 120 --every 10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "Frames to simulate; overrides the scenario")
	cmd.Flags().Float64Var(&opts.elapsed, "elapsed", 0, "Milliseconds per frame; overrides the scenario")
	cmd.Flags().IntVar(&opts.every, "every", 1, "Print every Nth frame; the last frame is always printed")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts simulateOptions) error {
	flags := cmd.Flags()
	s, err := loadScenario(flags)
	if err != nil {
		return err
	}
	if flags.Changed("steps") {
		s.Simulation.Steps = opts.steps
	}
	if flags.Changed("elapsed") {
		s.Simulation.ElapsedMs = opts.elapsed
	}
	if opts.every < 1 {
		return fmt.Errorf("--every must be at least 1, got %d", opts.every)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	cam, err := s.NewCamera()
	if err != nil {
		return err
	}
	controller, err := s.NewController()
	if err != nil {
		return err
	}

	sim := s.Simulation
	var frames []frame
	for i := 0; i < sim.Steps; i++ {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		controller.Update(cam, sim.StateAt(i), sim.ElapsedMs)
		if (i+1)%opts.every == 0 || i == sim.Steps-1 {
			frames = append(frames, frame{Step: i + 1, Snapshot: cam.Snapshot()})
		}
	}
	klog.V(2).InfoS("Simulated camera", "steps", sim.Steps, "elapsedMs", sim.ElapsedMs, "from", cam.From, "godMode", cam.GodMode)

	if p.yaml() {
		return p.document(frames)
	}
	for _, f := range frames {
		state := "grounded"
		if f.Airborne {
			state = "airborne"
		}
		fmt.Fprintf(p.out, "%4d  from=%s  forward=%s  %s  vy=%.4g\n", f.Step, f.From, f.Forward, state, f.VerticalVelocity)
	}
	return nil
}
