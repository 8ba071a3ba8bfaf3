package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelengine/spatial/recast"
	"github.com/kestrelengine/spatial/sample/solomesh"
	"github.com/kestrelengine/spatial/sample/tilemesh"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build OUTFILE",
	Short: "build navigation mesh from input geometry",
	Long: `Build a navigation mesh from input geometry in OBJ.
Build process is controlled by the provided build settings. Generated
navmesh is saved to OUTFILE in binary format, readable with the infos
subcommand and loadable at runtime.`,
	Run: doBuild,
}

var cfgVal, typeVal, inputVal string

func init() {
	RootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&cfgVal, "config", "recast.yml", "build settings")
	buildCmd.Flags().StringVar(&typeVal, "type", "solo", "navmesh type, 'solo' or 'tiled'")
	buildCmd.Flags().StringVar(&inputVal, "input", "", "input geometry OBJ file (required)")
}

func doBuild(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing OUTFILE")
		cmd.Usage()
		os.Exit(-1)
	}
	out := args[0]
	if inputVal == "" {
		fmt.Println("missing input geometry (--input)")
		os.Exit(-1)
	}
	check(fileExists(inputVal))

	var settings recast.BuildSettings
	if err := fileExists(cfgVal); err == nil {
		check(unmarshalYAMLFile(cfgVal, &settings))
		fmt.Printf("build settings read from '%s'\n", cfgVal)
	} else {
		settings = tilemesh.DefaultSettings()
		fmt.Println("using default build settings")
	}

	if ok, err := confirmIfExists(out,
		fmt.Sprintf("file name %s already exists, overwrite? [y/N]", out)); !ok {
		if err == nil {
			fmt.Println("aborted by user...")
		} else {
			fmt.Println("aborted,", err)
		}
		return
	}

	r, err := os.Open(inputVal)
	check(err)
	defer r.Close()

	ctx := recast.NewBuildContext(true)
	switch typeVal {
	case "solo":
		sm := solomesh.New(ctx)
		sm.SetSettings(solomesh.SettingsFromBuild(settings))
		check(sm.LoadGeometry(r))
		nav, ok := sm.Build()
		if !ok {
			ctx.DumpLog("build log")
			fmt.Println("couldn't build solo navmesh for", inputVal)
			os.Exit(-1)
		}
		check(nav.SaveToFile(out))
	case "tiled":
		tm := tilemesh.New(ctx)
		tm.SetSettings(settings)
		check(tm.LoadGeometry(r))
		nav, ok := tm.Build()
		if !ok {
			ctx.DumpLog("build log")
			fmt.Println("couldn't build tiled navmesh for", inputVal)
			os.Exit(-1)
		}
		check(nav.SaveToFile(out))
	default:
		fmt.Printf("unknown navmesh type '%s'\n", typeVal)
		os.Exit(-1)
	}
	fmt.Printf("navmesh written to '%s'\n", out)
}
