// Package timeline turns an SJF schedule into a fixed sequence of animation
// steps and replays them. Build derives the steps once from the final schedule;
// Player walks them manually or on a single cancellable timer that it owns, so
// independent players never share timer state.
package timeline
