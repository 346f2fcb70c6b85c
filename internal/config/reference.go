package config

// Reference is the commented default config written on first start and
// printed by `pipr config reference`.
const Reference = `#  ____  _
# |  _ \(_)_ __  _ __
# | |_) | | '_ \| '__|
# |  __/| | |_) | |
# |_|   |_| .__/|_|
#         |_|

# argv prefix the composed command is appended to.
eval_environment: ["bash", "-c"]

# Maximum run time of one evaluation. Longer runs are killed.
timeout: 10s

history_size: 500

# Re-run the command on every edit.
autoeval_default: true

# Store every successful autoeval run in the history.
paranoid_history_default: false

# Join buffer lines with newlines instead of spaces when executing.
raw_mode: false

# Receives the final command on stdin when pipr exits.
# finish_hook: "xclip -selection clipboard -in"

# Read-only mounts for the isolated backend. Syntax: '<on_host>:<in_isolated>'
isolation_mounts_readonly: ['/lib:/lib', '/usr:/usr', '/lib64:/lib64', '/bin:/bin', '/etc:/etc']

# Extra PATH entries inside the isolated backend.
isolation_path_additions: []

# Ctrl+V then the trigger key inserts the snippet. || marks the cursor.
snippets:
  s: " | sed -r 's/||//g'"
  g: ' | grep "||"'
  w: " | wc -l"

# F5 then the trigger key opens the word under the cursor. ?? is the word.
help_viewers:
  m: "man ??"
  h: "?? --help | less"

# F6 then the trigger key opens the output. ?? is a file holding the output;
# without ?? the output is piped to the viewer's stdin.
output_viewers:
  l: "less"
`
