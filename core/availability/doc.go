package availability

// Package availability derives free gaps from a fixed calendar. It walks
// the horizon day by day within working hours, sweeps past busy
// intervals and filters out gaps too small to hold the minimum task plus
// the mandatory break.
