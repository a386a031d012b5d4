package simplefsm

// Version of the simplefsm module
const Version = "0.3.0"
