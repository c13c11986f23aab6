// Package cps2 recovers the key of the second Feistel function (fn2) of the
// CPS2 arcade security chip from known plaintext/ciphertext pairs.
//
// fn2 is a 4-round Feistel network over 16-bit blocks with a 96-bit key. Each
// round function drives four 6-bit-to-2-bit s-boxes whose outputs land on
// disjoint bits of an 8-bit half-block. Recovery models the network as a
// bit-vector constraint system (see package bv), asserts one equation
// Encrypt(plaintext, key) == ciphertext per pair under a single shared key
// variable, and asks a SAT solver for a satisfying key.
//
// # Recovering a key
//
//	s, _ := bv.New(bv.BackendGini)
//	rec, err := cps2.NewRecoverer(s)
//	if err != nil {
//	    return err
//	}
//	defer rec.Close()
//
//	rec.AddPairs(cps2.SamplePairs()...)
//	res, err := rec.Recover(ctx)
//	if err == nil && res.Status == bv.StatusSat {
//	    fmt.Println(res.Key)
//	}
//
// A satisfiable result carries one key consistent with every pair. Other keys
// may also fit; Exclude rules a key out so the next Recover finds another.
// Recover honours the context: a deadline or cancellation yields
// bv.StatusUnknown rather than an error.
//
// # Reference cipher
//
// Cipher is a plain implementation of fn2, used to check recovered keys and
// to generate test pairs:
//
//	c, _ := cps2.NewCipher(key)
//	ct := c.Encrypt(0xbeef)
//	pt := c.Decrypt(ct)
//
// # Data layout
//
// Key bit 0 is the least significant bit of the 96-bit key. Round r (counting
// from zero) uses key bits [24r, 24r+24); its box i uses bits [6i, 6i+6) of
// that round key. A box with fewer than six inputs leaves the top bits of its
// index at zero, so the matching subkey bits select the table quarter or half.
package cps2
