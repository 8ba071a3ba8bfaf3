package recast

import (
	"os"
	"testing"
)

func TestCreateNavMesh(t *testing.T) {
	meshName := "../testdata/wallfloors.obj"
	if _, err := os.Stat(meshName); os.IsNotExist(err) {
		t.Skipf("fixture %s not present", meshName)
	}

	soloMesh := NewSoloMesh()
	if !soloMesh.Load(meshName) {
		t.Fatalf("couldn't load mesh %v", meshName)
	}
	_, ok := soloMesh.Build()
	if !ok {
		t.Fatalf("solomesh.Build failed")
	}
	t.Logf("solomesh.Build success")
}
