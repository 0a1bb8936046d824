package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Flatten renders the config as a flat name -> value map with dotted paths
// ("lensing.gravity.k", "angles.XY"). Every parameter keeps a stable name
// across versions because the names come from the yaml tags.
func Flatten(cfg *Config) (map[string]string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	out := map[string]string{}
	if len(root.Content) > 0 {
		flattenNode(root.Content[0], "", out)
	}
	return out, nil
}

func flattenNode(n *yaml.Node, prefix string, out map[string]string) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			child := n.Content[i+1]
			flattenNode(child, joinPath(prefix, key), out)
		}
	case yaml.SequenceNode:
		for i, child := range n.Content {
			flattenNode(child, joinPath(prefix, fmt.Sprint(i)), out)
		}
	default:
		out[prefix] = n.Value
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Apply sets parameters by their flat names on top of cfg. Unknown names
// are reported, known ones applied; a partial overlay is still usable.
func Apply(cfg *Config, params map[string]string) error {
	if len(params) == 0 {
		return nil
	}
	known, err := Flatten(cfg)
	if err != nil {
		return err
	}
	var unknown []string
	tree := map[string]any{}
	for name, value := range params {
		if _, ok := known[name]; !ok && !dynamicPath(name) {
			unknown = append(unknown, name)
			continue
		}
		insertPath(tree, strings.Split(name, "."), value)
	}

	data, err := yaml.Marshal(tree)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("apply parameters: %w", err)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown parameters: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// dynamicPath allows names whose keys are user data rather than struct
// fields: plane angle and velocity entries.
func dynamicPath(name string) bool {
	return strings.HasPrefix(name, "angles.") || strings.HasPrefix(name, "velocities.")
}

func insertPath(tree map[string]any, path []string, value string) {
	if len(path) == 1 {
		// Decode into a typed scalar so "2.5" lands in float fields and
		// "6" in int fields instead of surviving as a quoted string.
		var v any
		if err := yaml.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		tree[path[0]] = v
		return
	}
	child, ok := tree[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		tree[path[0]] = child
	}
	insertPath(child, path[1:], value)
}
