// Package pipeline runs one EmotiBit session end to end: it resolves the
// session date and period, loads the music schedule once, then loads, aligns,
// and renders each configured channel.
//
// Runner.Run handles a single session folder. Runner.RunRoot treats every
// subfolder of a dataset root as its own session and writes plots next to the
// data. Channels run sequentially unless render.workers allows a bounded
// fan-out; either way a fatal error stops the remaining channels while plots
// already written stay on disk.
package pipeline
