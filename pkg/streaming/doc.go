/*
Package streaming provides pull-based streams and stream combination.

Subpackages:
  - stream: the Stream interface, stream sources (slices, channels,
    generators, cron schedules, Redis), and consumption helpers
  - merge: dynamic fan-in of many streams into one

See the subpackage documentation for details and examples.
*/
package streaming
