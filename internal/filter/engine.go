package filter

// Apply reduces a decoded JSON body according to the policy registered for
// the resource-type tag. Unknown tags pass the body through unfiltered:
// the absence of a policy is never treated as "filter everything".
//
// The operation only ever removes fields, so it is idempotent: filtering
// already-filtered output with the same tag produces the same result.
func (r *Registry) Apply(tag string, body any) any {
	p, ok := r.policies[tag]
	if !ok {
		return body
	}
	return r.walk(p, "", body, false)
}

// walk filters one node. path is the dot-path from the current policy's
// root ("" at the root; arrays do not extend it). pruning is set inside a
// dropped container that a keep path traverses: everything is discarded
// except fields on the way to, or matching, an always-keep entry.
func (r *Registry) walk(p compiled, path string, node any, pruning bool) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}

			// Containers mapped to a child resource type use that type's
			// own policy and are never dropped wholesale: their children
			// carry their own always-keep fields.
			if tag, ok := p.nested[key]; ok && !pruning {
				if np, registered := r.policies[tag]; registered {
					out[key] = r.walk(np, "", child, false)
				} else {
					out[key] = child
				}
				continue
			}

			if p.keeps(childPath, key) {
				out[key] = r.walk(p, childPath, child, false)
				continue
			}

			if pruning || p.drops(childPath, key) {
				// A dropped container with kept descendants is pruned,
				// not removed: the always-keep guarantee holds at every
				// depth.
				if _, onKeepPath := p.keepPrefixes[childPath]; onKeepPath {
					pruned := r.walk(p, childPath, child, true)
					if m, ok := pruned.(map[string]any); ok && len(m) == 0 {
						continue
					}
					out[key] = pruned
				}
				continue
			}

			out[key] = r.walk(p, childPath, child, false)
		}
		return out

	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = r.walk(p, path, elem, pruning)
		}
		return out

	default:
		return v
	}
}

func (p compiled) keeps(path, name string) bool {
	if _, ok := p.keepPaths[path]; ok {
		return true
	}
	_, ok := p.keepNames[name]
	return ok
}

func (p compiled) drops(path, name string) bool {
	if _, ok := p.dropPaths[path]; ok {
		return true
	}
	_, ok := p.dropNames[name]
	return ok
}
