// Package physics provides the scalar field laws behind the lensing render
// mode: the gravity falloff law, the manifold (accretion-disk) density model
// and the shell band mask.
//
// Everything here is a pure function of an n-dimensional sample point and a
// parameter struct, so the raymarch loop can call it from any number of
// goroutines. None of it is physically accurate general relativity; the laws
// are artist-tunable approximations that stay finite for every input.
package physics
