package plan

// Package plan implements the greedy first-fit placement engine. Tasks
// are processed by descending priority with earlier deadlines breaking
// ties, each claiming the first free gap large enough for the task and
// its travel legs. Placement is all-or-nothing per task.
