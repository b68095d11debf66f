package masking

// Mask returns a copy of n in which every object field whose key matches the
// policy has its whole value replaced by the replacement token. Matched fields
// are not descended into, so nested structure under a sensitive key is hidden
// as a unit. Arrays are walked element-wise. The input tree is not modified and
// the shape of every object and array is preserved.
func Mask(n *Node, policy Policy) *Node {
	if n == nil || !policy.Active() {
		return n
	}
	switch n.Kind {
	case KindObject:
		fields := make([]Field, len(n.Fields))
		for i, f := range n.Fields {
			if policy.Matches(f.Key) {
				fields[i] = Field{Key: f.Key, Value: String(policy.Replacement())}
				continue
			}
			fields[i] = Field{Key: f.Key, Value: Mask(f.Value, policy)}
		}
		return Object(fields...)
	case KindArray:
		items := make([]*Node, len(n.Items))
		for i, item := range n.Items {
			items[i] = Mask(item, policy)
		}
		return Array(items...)
	default:
		return n
	}
}
