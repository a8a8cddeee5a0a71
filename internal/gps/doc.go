// Package gps formats and parses the NMEA sentences used to feed synthetic
// trails to GPS consumers.
//
// Only RMC is produced: it carries everything a position consumer needs
// (time, lat/lon, ground speed, track).
package gps
