// Package rig drives the yards and braces of a square sail from a single
// control bone.
//
// Each BoneControl takes over one skeleton joint through a proxy node and
// remembers the joint's bind pose as an origin frame, so "local" values are
// displacements from rest and "global" values are measured against the
// armature root. An Armature binds the fixed set of roles named
// "<prefix>-<role>" and, when any bone changed, re-derives every dependent
// bone in one ordered pass of copy, aim and stretch constraints.
//
// Braces come in three shapes per side, picked by which bones the skeleton
// provides: Direct, TwoTier and Pole.
package rig
