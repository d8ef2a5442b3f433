// Package anya2c implements synchronous Advantage
// Actor-Critic (A2C), an on-policy gradient-based
// reinforcement learning algorithm.
package anya2c
