package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelengine/spatial/detour"
)

// infosCmd represents the infos command
var infosCmd = &cobra.Command{
	Use:   "infos NAVMESH",
	Short: "show infos about a navmesh",
	Long: `Read a navigation mesh from binary file, check the data
for consistency then print informations on standard output.`,
	Run: doInfos,
}

func init() {
	RootCmd.AddCommand(infosCmd)
}

func doInfos(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing NAVMESH file")
		cmd.Usage()
		os.Exit(-1)
	}
	check(fileExists(args[0]))

	f, err := os.Open(args[0])
	check(err)
	defer f.Close()

	mesh, err := detour.Decode(f)
	check(err)

	var tiles, polys, verts int32
	for i := range mesh.Tiles {
		hdr := mesh.Tiles[i].Header
		if hdr == nil {
			continue
		}
		tiles++
		polys += hdr.PolyCount
		verts += hdr.VertCount
	}

	fmt.Printf("navmesh '%s'\n", args[0])
	fmt.Printf("  origin      : %v\n", mesh.Orig)
	fmt.Printf("  tile size   : %.2f x %.2f\n", mesh.TileWidth, mesh.TileHeight)
	fmt.Printf("  max tiles   : %d\n", mesh.MaxTiles)
	fmt.Printf("  built tiles : %d\n", tiles)
	fmt.Printf("  polygons    : %d\n", polys)
	fmt.Printf("  vertices    : %d\n", verts)
}
