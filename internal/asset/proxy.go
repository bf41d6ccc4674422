package asset

// ProxyPrefix is the route prefix of the stable image proxy. The path for a
// given object key never changes, so browsers and CDNs can cache against it
// while the underlying signed URL keeps rotating.
const ProxyPrefix = "/api/image/"

// ProxyPath maps a stored reference to the URL public pages should emit.
// Empty input yields "", external URLs pass through unchanged, object keys
// map to ProxyPrefix + key. For a fixed input the output is deterministic
// and stable across calls.
func ProxyPath(ref string) string {
	r := Classify(ref)
	switch {
	case r.IsZero():
		return ""
	case r.IsExternal():
		return r.String()
	}
	return ProxyPrefix + r.Key()
}

// ProxyPaths applies ProxyPath element-wise, preserving input order and
// empty entries.
func ProxyPaths(refs []string) []string {
	if refs == nil {
		return nil
	}
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ProxyPath(ref)
	}
	return out
}
