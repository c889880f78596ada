// yavne - Yet Another Vertex Normal Editor
// Computes per-corner split shading normals for glTF meshes under
// author-selectable weighting policies, and merges nearby normals into a
// shared value.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chikichikibangbang/yavne/internal/config"
	"github.com/chikichikibangbang/yavne/internal/logger"
	"github.com/chikichikibangbang/yavne/pkg/mesh"
	"github.com/chikichikibangbang/yavne/pkg/normals"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfgPath  string
	logLevel string
	logFile  string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "yavne",
		Short:         "Split vertex normal editor for glTF meshes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = a.logLevel
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Logging.LogFile = a.logFile
			}
			a.cfg = cfg
			a.log = logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Optional log file path")

	root.AddCommand(newComputeCmd(a), newMergeCmd(a), newInspectCmd(a))
	return root
}

func newComputeCmd(a *app) *cobra.Command {
	var (
		output      string
		smoothAngle float64
		autoSmooth  bool
		flatFaces   bool
		linked      bool
		linkAngle   float64
		workers     int
		serial      bool
		sharpAngle  float64
		weight      string
		influence   string
	)

	cmd := &cobra.Command{
		Use:   "compute <model.glb>",
		Short: "Compute split shading normals and write them back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := a.cfg.Compute
			if cmd.Flags().Changed("smooth-angle") {
				cc.SmoothAngleDeg = smoothAngle
			}
			if cmd.Flags().Changed("auto-smooth") {
				cc.UseAutoSmooth = autoSmooth
			}
			if cmd.Flags().Changed("flat-faces") {
				cc.FlatFaces = flatFaces
			}
			if cmd.Flags().Changed("linked-face-weights") {
				cc.LinkedFaceWeights = linked
			}
			if cmd.Flags().Changed("link-angle") {
				cc.LinkAngleDeg = linkAngle
			}
			if cmd.Flags().Changed("workers") {
				cc.Workers = workers
			}
			if serial {
				cc.Parallel = false
			}

			m, err := mesh.LoadGLB(args[0])
			if err != nil {
				return err
			}
			a.log.Info("loaded model",
				zap.String("name", m.Name),
				zap.Int("verts", len(m.Verts)),
				zap.Int("faces", len(m.Faces)),
				zap.Int("corners", len(m.Corners)),
			)

			if cmd.Flags().Changed("sharp-angle") {
				m.MarkSharpByAngle(radians(sharpAngle))
			}
			if weight != "" {
				w, err := mesh.ParseWeightMode(weight)
				if err != nil {
					return err
				}
				for v := range m.Verts {
					m.Attrs().SetWeightMode(v, w)
				}
			}
			if influence != "" {
				infl, err := mesh.ParseFaceInfluence(influence)
				if err != nil {
					return err
				}
				for f := range m.Faces {
					m.Attrs().SetInfluence(f, infl)
				}
			}

			engine := normals.NewEngine(engineOptions(cc), a.log)
			if err := engine.Compute(cmd.Context(), m); err != nil {
				return err
			}
			return save(m, output, args[0])
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: overwrite input)")
	cmd.Flags().Float64Var(&smoothAngle, "smooth-angle", 60, "Smoothing angle threshold in degrees")
	cmd.Flags().BoolVar(&autoSmooth, "auto-smooth", true, "Apply the smoothing angle threshold")
	cmd.Flags().BoolVar(&flatFaces, "flat-faces", false, "Isolate non-smooth faces into singleton groups")
	cmd.Flags().BoolVar(&linked, "linked-face-weights", false, "Weight by linked-island area instead of per-face area")
	cmd.Flags().Float64Var(&linkAngle, "link-angle", 1, "Linked-island dihedral threshold in degrees")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count for parallel passes (0: all CPUs)")
	cmd.Flags().BoolVar(&serial, "serial", false, "Force single-worker execution")
	cmd.Flags().Float64Var(&sharpAngle, "sharp-angle", 0, "Mark edges sharper than this dihedral angle (degrees)")
	cmd.Flags().StringVar(&weight, "weight", "", "Assign weight mode to all vertices (uniform, angle, area, combined, unweighted)")
	cmd.Flags().StringVar(&influence, "influence", "", "Assign normal influence to all faces (weak, medium, strong)")
	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	var (
		output     string
		distance   float64
		unselected bool
		selection  string
	)

	cmd := &cobra.Command{
		Use:   "merge <model.glb>",
		Short: "Merge nearby vertex normals into a shared value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mc := a.cfg.Merge
			if cmd.Flags().Changed("distance") {
				mc.Distance = distance
			}
			if cmd.Flags().Changed("include-unselected") {
				mc.IncludeUnselected = unselected
			}

			m, err := mesh.LoadGLB(args[0])
			if err != nil {
				return err
			}

			if selection == "" {
				for v := range m.Verts {
					m.Attrs().SetSelected(v, true)
				}
			} else {
				verts, err := parseSelection(selection, len(m.Verts))
				if err != nil {
					return err
				}
				for _, v := range verts {
					m.Attrs().SetSelected(v, true)
				}
			}

			engine := normals.NewEngine(engineOptions(a.cfg.Compute), a.log)
			err = normals.Merge(cmd.Context(), m, engine, normals.MergeOptions{
				Distance:          mc.Distance,
				IncludeUnselected: mc.IncludeUnselected,
			})
			if err != nil {
				return err
			}
			return save(m, output, args[0])
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: overwrite input)")
	cmd.Flags().Float64Var(&distance, "distance", 0.0001, "Maximum distance between merged vertex normals")
	cmd.Flags().BoolVar(&unselected, "include-unselected", false, "Also merge unselected vertices within range")
	cmd.Flags().StringVar(&selection, "selection", "", "Comma-separated vertex indices (default: all)")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <model.glb>",
		Short: "Report mesh statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mesh.LoadGLB(args[0])
			if err != nil {
				return err
			}

			sharp := 0
			for _, e := range m.Edges {
				if e.Sharp {
					sharp++
				}
			}
			min, max := m.Bounds()

			fmt.Printf("%s\n", m.Name)
			fmt.Printf("  verts:   %d\n", len(m.Verts))
			fmt.Printf("  faces:   %d\n", len(m.Faces))
			fmt.Printf("  corners: %d\n", len(m.Corners))
			fmt.Printf("  edges:   %d (%d sharp)\n", len(m.Edges), sharp)
			fmt.Printf("  bounds:  (%.4g, %.4g, %.4g) .. (%.4g, %.4g, %.4g)\n",
				min.X, min.Y, min.Z, max.X, max.Y, max.Z)
			return nil
		},
	}
}

func engineOptions(cc config.ComputeConfig) normals.Options {
	return normals.Options{
		UseAutoSmooth:     cc.UseAutoSmooth,
		SmoothAngle:       radians(cc.SmoothAngleDeg),
		FlatFaces:         cc.FlatFaces,
		LinkedAreaWeights: cc.LinkedFaceWeights,
		LinkAngle:         radians(cc.LinkAngleDeg),
		Workers:           cc.Workers,
		Parallel:          cc.Parallel,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func parseSelection(s string, nverts int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %q", part)
		}
		if v < 0 || v >= nverts {
			return nil, fmt.Errorf("vertex index %d out of range [0, %d)", v, nverts)
		}
		out = append(out, v)
	}
	return out, nil
}

func save(m *mesh.Mesh, output, input string) error {
	if output == "" {
		output = input
	}
	return m.SaveGLB(output)
}
