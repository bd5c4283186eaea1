package aggregate

import "github.com/pagoda-run/pagoda/dataset"

func matchName(a, b string, ignoreCase bool) bool {
	if !ignoreCase {
		return a == b
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func lookupDim(dims []*dataset.Dimension, name string, ignoreCase bool) (*dataset.Dimension, bool) {
	for _, d := range dims {
		if matchName(d.Name, name, ignoreCase) {
			return d, true
		}
	}
	return nil, false
}

func lookupVar(vars []*dataset.Variable, name string, ignoreCase bool) (*dataset.Variable, bool) {
	for _, v := range vars {
		if matchName(v.Name, name, ignoreCase) {
			return v, true
		}
	}
	return nil, false
}

// lookupAttr implements the (ignore_case, within_vars) global-attribute
// lookup contract of spec §4.2/§4.4: withinVars==true additionally
// searches every variable's own attributes, first match wins in variable
// order.
func lookupAttr(atts []*dataset.Attribute, vars []*dataset.Variable, name string, ignoreCase, withinVars bool) (*dataset.Attribute, bool) {
	for _, a := range atts {
		if matchName(a.Name, name, ignoreCase) {
			return a, true
		}
	}
	if withinVars {
		for _, v := range vars {
			if a, ok := v.GetAtt(name, ignoreCase); ok {
				return a, true
			}
		}
	}
	return nil, false
}
