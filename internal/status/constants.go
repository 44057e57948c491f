// internal/status/constants.go
package status

// Display status block layout constants.
// These values define the panel protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDisplay is the fixed number of registers per status block.
const SlotsPerDisplay = 32

// ---- SLOT INDICES ----

// SlotStageCode holds the boot stage the lines describe.
const SlotStageCode = 0

// Slots 1–7 are reserved for future use.
const SlotReservedStart = 1
const SlotReservedEnd = 7

// ---- TEXT LINES ----

// Lines is the number of text lines on the panel.
const Lines = 3

// SlotLinesStart is the first register of line 0.
const SlotLinesStart = 8

// SlotsPerLine is the number of registers reserved for one line.
const SlotsPerLine = 8

// LineMaxChars is the maximum number of ASCII characters stored per line.
const LineMaxChars = SlotsPerLine * 2

// ---- STAGE CODES ----

// StageUnknown is an unset or free-form status.
const StageUnknown uint16 = 0

// StageDeviceReady is shown once the panel is up.
const StageDeviceReady uint16 = 1

// StageConnecting is shown while the link associates.
const StageConnecting uint16 = 2

// StageConnected is shown once an address is acquired.
const StageConnected uint16 = 3

// StageRequestSent is shown once the HTTP request is on the wire.
const StageRequestSent uint16 = 4
