// Packages lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains the dependency health checks and the cron scheduler
// that runs them in the background.
package lib
