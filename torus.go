/*
Package torus is a pure Go implementation of the bootstrapping kernel of torus fully homomorphic
encryption: negacyclic FFT polynomial arithmetic, gadget decomposition, GLWE and GGSW ciphertexts,
external products and blind rotations, over 32 or 64-bit torus elements and native or power-of-two
ciphertext moduli. Every hot-path operation draws its temporary memory from a caller provided
scratch arena and does not allocate.
*/
package torus
