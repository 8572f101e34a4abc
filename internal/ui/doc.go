// Package ui provides the fetchlab terminal interface.
//
// The shell is a Bubble Tea model holding one demo page per tab. Each page
// owns its own lifecycle controller; the model polls the active
// controller's snapshot on a short tick and renders four regions: a status
// header, the topic pane (blurb and code snippet), the run pane (spinner,
// narration progress, result or failure), and the transcript viewport.
//
// The run and reset keys are the only actions that touch a controller;
// everything else is presentation. A run key pressed while a demo is
// loading is ignored by the controller itself, so the UI never has to
// debounce.
package ui
