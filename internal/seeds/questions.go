package seeds

import "github.com/echo-cqy/codeling/internal/models"

// DefaultQuestions returns the built-in starter catalog. The local store seeds
// it on first open; callers get fresh copies so nobody mutates the seed data.
func DefaultQuestions() []models.Question {
	out := make([]models.Question, len(defaultQuestions))
	copy(out, defaultQuestions)
	for i := range out {
		out[i].Tags = append([]string(nil), defaultQuestions[i].Tags...)
	}
	return out
}

var defaultQuestions = []models.Question{
	{
		ID:          "1",
		Title:       "Counter Component",
		Difficulty:  models.DifficultyEasy,
		Description: `Create a simple counter component with "Increment" and "Decrement" buttons. Ensure the count cannot go below zero.`,
		Category:    "Basic Hooks",
		Tags:        []string{"useState", "Basics", "Reactivity"},
		CreatedAt:   1715000000000,
		React: models.QuestionCode{
			Initial: `import React, { useState } from 'react';

export default function Counter() {
  const [count, setCount] = useState(0);

  return (
    <div className="p-6 text-center">
      <h2 className="text-2xl font-bold mb-4">Count: {count}</h2>
      <div className="flex gap-3 justify-center">
        {/* Add buttons here */}
      </div>
    </div>
  );
}`,
			Solution: `import React, { useState } from 'react';

export default function Counter() {
  const [count, setCount] = useState(0);

  return (
    <div className="p-6 text-center">
      <h2 className="text-2xl font-bold mb-4">Count: {count}</h2>
      <div className="flex gap-3 justify-center">
        <button onClick={() => setCount(prev => prev + 1)}>+ Increment</button>
        <button onClick={() => setCount(prev => Math.max(0, prev - 1))}>- Decrement</button>
      </div>
    </div>
  );
}`,
		},
		Vue: models.QuestionCode{
			Initial: `<script setup>
import { ref } from 'vue';

const count = ref(0);
</script>

<template>
  <div class="p-6 text-center">
    <h2 class="text-2xl font-bold mb-4">Count: {{ count }}</h2>
    <div class="flex gap-3 justify-center">
      <!-- Add buttons here -->
    </div>
  </div>
</template>`,
			Solution: `<script setup>
import { ref } from 'vue';

const count = ref(0);

const increment = () => count.value++;
const decrement = () => {
  if (count.value > 0) count.value--;
};
</script>

<template>
  <div class="p-6 text-center">
    <h2 class="text-2xl font-bold mb-4">Count: {{ count }}</h2>
    <div class="flex gap-3 justify-center">
      <button @click="increment">+ Increment</button>
      <button @click="decrement">- Decrement</button>
    </div>
  </div>
</template>`,
		},
	},
	{
		ID:          "2",
		Title:       "Todo List",
		Difficulty:  models.DifficultyMedium,
		Description: "Build a todo list. Users can add items via an input field, toggle completion by clicking an item, and remove items with a delete button. Completed items render with a strikethrough.",
		Category:    "Lists & Forms",
		Tags:        []string{"Lists", "Forms", "State"},
		CreatedAt:   1715000001000,
		React: models.QuestionCode{
			Initial: `import React, { useState } from 'react';

export default function TodoList() {
  const [todos, setTodos] = useState([]);
  const [input, setInput] = useState('');

  return (
    <div className="p-6">
      <input value={input} onChange={e => setInput(e.target.value)} placeholder="Add a todo..." />
      <ul>{/* Render todos here */}</ul>
    </div>
  );
}`,
			Solution: `import React, { useState } from 'react';

export default function TodoList() {
  const [todos, setTodos] = useState([]);
  const [input, setInput] = useState('');

  const addTodo = () => {
    if (!input.trim()) return;
    setTodos(prev => [...prev, { id: Date.now(), text: input, done: false }]);
    setInput('');
  };

  const toggle = (id) =>
    setTodos(prev => prev.map(t => t.id === id ? { ...t, done: !t.done } : t));

  const remove = (id) =>
    setTodos(prev => prev.filter(t => t.id !== id));

  return (
    <div className="p-6">
      <input value={input} onChange={e => setInput(e.target.value)} placeholder="Add a todo..." />
      <button onClick={addTodo}>Add</button>
      <ul>
        {todos.map(t => (
          <li key={t.id}>
            <span
              onClick={() => toggle(t.id)}
              style={{ textDecoration: t.done ? 'line-through' : 'none' }}
            >
              {t.text}
            </span>
            <button onClick={() => remove(t.id)}>x</button>
          </li>
        ))}
      </ul>
    </div>
  );
}`,
		},
		Vue: models.QuestionCode{
			Initial: `<script setup>
import { ref } from 'vue';

const todos = ref([]);
const input = ref('');
</script>

<template>
  <div class="p-6">
    <input v-model="input" placeholder="Add a todo..." />
    <ul><!-- Render todos here --></ul>
  </div>
</template>`,
			Solution: `<script setup>
import { ref } from 'vue';

const todos = ref([]);
const input = ref('');

const addTodo = () => {
  if (!input.value.trim()) return;
  todos.value.push({ id: Date.now(), text: input.value, done: false });
  input.value = '';
};

const toggle = (todo) => { todo.done = !todo.done; };
const remove = (id) => { todos.value = todos.value.filter(t => t.id !== id); };
</script>

<template>
  <div class="p-6">
    <input v-model="input" @keyup.enter="addTodo" placeholder="Add a todo..." />
    <button @click="addTodo">Add</button>
    <ul>
      <li v-for="todo in todos" :key="todo.id">
        <span
          @click="toggle(todo)"
          :style="{ textDecoration: todo.done ? 'line-through' : 'none' }"
        >
          {{ todo.text }}
        </span>
        <button @click="remove(todo.id)">x</button>
      </li>
    </ul>
  </div>
</template>`,
		},
	},
}
