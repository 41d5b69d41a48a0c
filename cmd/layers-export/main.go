// layers-export：离线生成场景图层 JSON / GeoJSON，供静态部署使用
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/api"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/config"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/scene"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/source"
)

func main() {
	logger.Setup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cfg：flag 默认值来源，需在注册 flag 之前加载 .env
var cfg = loadConfig()

func loadConfig() config.Config {
	_ = godotenv.Load(".env")
	return config.FromEnv()
}

var rootCmd = &cobra.Command{
	Use:   "layers-export",
	Short: "Export tariff map layers without running the server",
	Long: `layers-export loads the topology, data and settings documents the same
way the server does and writes the rendered layers to disk.

Environment variables (DATA_DIR, DATA_BASE_URL, COORD_RESCALE, BUBBLE_MAP, ...)
provide the defaults; flags override them.`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("data-dir", cfg.DataDir, "directory holding the documents")
	pf.String("base-url", cfg.DataBaseURL, "fetch documents from this URL instead of data-dir")
	pf.Float64("rescale", cfg.Rescale, "display rescale factor applied after the topology transform")
	pf.Bool("bubble-map", cfg.BubbleMap, "render in bubble mode")
	pf.StringP("output", "o", "", "output file or directory (default: stdout)")

	sceneCmd.Flags().IntSlice("scenario", nil, "scenario indices to export (default: every scenario in the data)")
	geojsonCmd.Flags().String("object", scene.DefaultObjects().Fill, "topology object to export")

	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(geojsonCmd)
}

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Write one scene JSON per scenario",
	Long: `Write the layers of each requested scenario as JSON.

With a single scenario and no --output the scene goes to stdout; otherwise
--output names a directory that receives scene-<N>.json files.`,
	Args: cobra.NoArgs,
	RunE: runScene,
}

var geojsonCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Write a decoded topology object as a GeoJSON FeatureCollection",
	Args:  cobra.NoArgs,
	RunE:  runGeoJSON,
}

func openSession(cmd *cobra.Command) (*scene.Session, error) {
	dir, _ := cmd.Flags().GetString("data-dir")
	base, _ := cmd.Flags().GetString("base-url")
	rescale, _ := cmd.Flags().GetFloat64("rescale")
	bubble, _ := cmd.Flags().GetBool("bubble-map")

	l := &source.Loader{
		Dir:          dir,
		BaseURL:      base,
		TopologyFile: cfg.TopologyFile,
		DataFile:     cfg.DataFile,
		SettingsFile: cfg.SettingsFile,
		Timeout:      cfg.FetchTimeout,
	}
	docs, err := l.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	return scene.NewSession(docs, scene.Options{Objects: scene.DefaultObjects(), BubbleMap: bubble, Rescale: rescale, Scenario: cfg.Scenario})
}

func runScene(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	scenarios, _ := cmd.Flags().GetIntSlice("scenario")
	if len(scenarios) == 0 {
		scenarios = s.Table().Scenarios()
	}
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios in data")
	}

	if len(scenarios) == 1 && out == "" {
		return writeJSON(os.Stdout, s.Build(scenarios[0]))
	}
	if out == "" {
		return fmt.Errorf("--output directory is required for %d scenarios", len(scenarios))
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, n := range scenarios {
		path := filepath.Join(out, "scene-"+strconv.Itoa(n)+".json")
		if err := writeFile(path, s.Build(n)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	}
	return nil
}

func runGeoJSON(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	object, _ := cmd.Flags().GetString("object")
	shapes, ok := s.Shapes(object)
	if !ok {
		return fmt.Errorf("object %q is not decoded by the session", object)
	}
	fc := api.FeatureCollection(shapes, s.Labels())
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return writeJSON(os.Stdout, fc)
	}
	return writeFile(out, fc)
}

func writeFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
