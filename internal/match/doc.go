// Package match scores how well candidate song titles correspond to a query
// title. Titles are normalized first, then compared with several edit-distance
// based measures that are combined into a single confidence in [0,1] with an
// explanation of which measure carried the match.
package match
