/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bonjson

// frame is one entry of the container stack shared by Encoder and Decoder
// (§3.3): a two-bit record of whether the open container is an object and
// whether the next event must be an object name.
type frame struct {
	isObject      bool
	expectingName bool
}

// containerStack is the depth-bounded stack both state machines push and
// pop as they walk into and out of arrays and objects. It holds no
// allocation beyond its backing slice, which grows at most to maxDepth.
type containerStack struct {
	frames   []frame
	maxDepth int
}

func newContainerStack(maxDepth int) containerStack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return containerStack{maxDepth: maxDepth}
}

func (s *containerStack) depth() int { return len(s.frames) }

// top returns the current frame, or nil at the root.
func (s *containerStack) top() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// push opens a new container. It reports false if doing so would exceed
// maxDepth, leaving the stack unchanged. A fresh object frame starts with
// expectingName set, since its first event must be a name (or an immediate
// close); a fresh array frame never expects names.
func (s *containerStack) push(isObject bool) bool {
	if len(s.frames) >= s.maxDepth {
		return false
	}
	s.frames = append(s.frames, frame{isObject: isObject, expectingName: isObject})
	return true
}

// pop closes the innermost container. It reports false if the stack was
// already empty (unbalanced close).
func (s *containerStack) pop() bool {
	if len(s.frames) == 0 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}
