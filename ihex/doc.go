// Package ihex decodes the Intel HEX text encoding into a fixed-size memory
// block.
//
// Every line of an Intel HEX file is a record. Data records carry bytes for
// a 16 bit address that is relative to a base address set by extended
// segment or extended linear address records. Start segment and start linear
// address records set the CS/IP and EIP entry point registers.
// An end of file record has to be present.
package ihex
