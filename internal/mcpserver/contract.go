package mcpserver

// ChecklistFormatURI is the resource that serves ChecklistContract.
const ChecklistFormatURI = "notegenius://checklist-format"

// ChecklistContract describes the checklist line format that LLM consumers
// must follow when writing note content.
const ChecklistContract = `# notegenius Checklist Format

Tasks live inside the Markdown body of a note. A line is a task when it is
exactly one of:

` + "```" + `markdown
- [ ] Open task text
- [x] Completed task text
` + "```" + `

## Rules

1. The line starts at column zero with ` + "`- [`" + `, one space or a lowercase
   ` + "`x`" + `, ` + "`] `" + ` and then the task text. Indented lines, ` + "`* [ ]`" + `,
   ` + "`- [X]`" + ` and ` + "`-[ ]`" + ` are plain text, not tasks.
2. A task's index is its zero-based position among the task lines of the
   note, top to bottom. Other lines do not count. Use that index with the
   ` + "`toggle_task`" + ` tool.
3. Toggling only flips ` + "`[ ]`" + ` and ` + "`[x]`" + `; the rest of the line and the
   rest of the note stay byte-for-byte identical.
4. Notes of type ` + "`checklist`" + ` are mostly task lines, but any note may hold
   tasks. Headings and blank lines between tasks are fine.
5. Lines end with ` + "`\\n`" + `. Do not add trailing spaces after the text.

## Example

` + "```" + `markdown
## Launch

- [ ] Draft announcement
- [x] Book venue
- [ ] Send invites
` + "```" + `

Here "Draft announcement" is task 0, "Book venue" is task 1 and completed,
"Send invites" is task 2.
`
