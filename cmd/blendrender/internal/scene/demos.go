package scene

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed demos/*.yaml
var demoFS embed.FS

// DemoNames lists the built-in scenes in name order.
func DemoNames() []string {
	entries, _ := fs.ReadDir(demoFS, "demos")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}

// Demo returns the built-in scene called name.
func Demo(name string) (*Scene, error) {
	data, err := demoFS.ReadFile(path.Join("demos", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("scene: unknown demo %q", name)
	}
	return Parse(data)
}
