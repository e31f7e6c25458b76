// Package pathtree implements generic tries keyed by separator-delimited
// paths.
//
// Every level of a Tree holds literal children and at most one wildcard
// child. Key components enclosed in braces are placeholders and are stored
// under the wildcard:
//
//	t := pathtree.New[string]()
//	t.Add("/users/me", "self")
//	t.Add("/users/{id}", "user")
//
//	t.Get("/users/me")  // "self": literal children win
//	t.Get("/users/42")  // "user": wildcard fallback
//
// A PrefixTree additionally resolves keys that run past a leaf, returning
// the leaf value and the unconsumed tail, which is how "/static/*"-style
// routes are expressed:
//
//	p := pathtree.NewPrefix[string]()
//	p.Add("/static", "files")
//	v, tail, _ := p.Match("/static/css/site.css") // "files", "css/site.css"
//
// PrefixTree.Optimize compacts subtrees whose leaves all share one value.
//
// Trees are not safe for concurrent writes. Build them during start-up and
// treat them as read-only afterwards.
package pathtree
