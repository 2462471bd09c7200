// Package match ranks reference catalog rows against structured queries.
//
// Matching runs in two stages. The [Filter] removes every row that cannot
// satisfy the query: brands must be equal after normalization, and each
// dimension constraint must hold within a relative tolerance. The [Scorer]
// then grades the survivors with a weighted mix of token similarity and
// numeric proximity, normalized by the weights of the fields the query
// actually carries.
//
//	ref := match.NewReference(rows)
//	result := match.NewMatcher().Match(query, ref)
//	if result.Found() {
//	    fmt.Println(result.Best.Code, result.BestScore)
//	}
//
// Relational operators read as "query op reference": a query length of
// ">= 60" is satisfied by a reference length of 60 or less, widened by the
// tolerance. A filter that removes every row yields an empty result.
package match
