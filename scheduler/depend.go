package scheduler

// ResolveDependsOn normalizes a SubmitRequest.DependsOn value into an ordered
// list of job IDs. It accepts nil, a job ID string, a *Job handle, or a slice
// of either (including a mixed []any). Duplicates are removed preserving
// first-occurrence order, since some schedulers are sensitive to directive
// ordering. A nil or empty input resolves to an empty list, which emits no
// directive. Anything else fails with a *DependencyError.
func ResolveDependsOn(dep any) ([]string, error) {
	if dep == nil {
		return nil, nil
	}

	var elems []any
	switch v := dep.(type) {
	case string:
		elems = []any{v}
	case *Job:
		elems = []any{v}
	case []string:
		for _, s := range v {
			elems = append(elems, s)
		}
	case []*Job:
		for _, j := range v {
			elems = append(elems, j)
		}
	case []any:
		elems = v
	default:
		return nil, &DependencyError{Value: dep}
	}

	seen := make(map[string]bool, len(elems))
	ids := make([]string, 0, len(elems))
	for _, e := range elems {
		var id string
		switch v := e.(type) {
		case string:
			id = v
		case *Job:
			if v == nil {
				return nil, &DependencyError{Value: e}
			}
			id = v.ID
		default:
			return nil, &DependencyError{Value: e}
		}
		if id == "" {
			return nil, &DependencyError{Value: e}
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids, nil
}
