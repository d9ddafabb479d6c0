// Package chart renders the report figures with gonum/plot: the coherence
// scatter plot with its least-squares trend line and the two-pass
// coregistration error chart.
package chart
