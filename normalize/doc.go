// Package normalize rewrites geometry values so that every node shares one dimensionality.
//
// Readers may produce collections whose parts disagree on Z/M presence; the blob codec
// only accepts uniform values. The forcing operations follow this policy per node:
//
//	requested  existing      result
//	Z          M only        M becomes Z
//	Z          Z (and M)     M dropped
//	Z          neither       default Z appended
//	M          Z only        Z dropped, default M appended
//	Z and M    one of them   the missing one appended with its default
//	2D         any           Z and M dropped
//
// Reconcile forces a mixed value to the union of its dimensions.
package normalize
