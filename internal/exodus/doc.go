// Package exodus reads Exodus II finite-element results stored as netCDF.
//
// The package extracts what a viewer needs from a results file:
//
//   - [Data]: time steps, nodal coordinates, nodal and global variables keyed
//     by their decoded names, and the mesh shape
//   - [Inventory]: every raw field of the file with a short description, plus
//     the decoded global, nodal and elemental name tables
//   - [DecodeName]: conversion of one fixed-width, NUL padded name row into a
//     readable string, with a Var_<i> placeholder when the row cannot be read
//
// # Example
//
//	r := exodus.NewReader(exodus.WithLogger(log))
//	data, err := r.Read("results.e")
//	if err != nil {
//		return err
//	}
//	temps := data.Nodal["temperature"][0]
//
// Missing optional fields never fail a read. A missing z coordinate becomes
// zeros, a missing time field becomes a single step at t=0, and a declared
// variable without a value array is left out of [Data.Nodal] and reported in
// [Data.Notices].
//
// # Thread Safety
//
// A [Reader] keeps no per-read state. Every call opens its own [Dataset] and
// builds its own result, so a Reader may be shared between goroutines.
package exodus
