/*
Package scheduling provides the task scheduling primitives used by muxflow.

Currently this covers one component:

  - taskset: an unordered, dynamically growable set of one-shot tasks,
    drained in completion order

The task set is a reusable primitive: pkg/streaming/merge builds its stream
multiplexing on top of it, registering one head-of-stream task per member.
*/
package scheduling
