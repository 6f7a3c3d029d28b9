package asset

// LifecycleFSMConfig is the application lifecycle graph
// States are forward-only: Loading -> Matchmaking -> InGame
const LifecycleFSMConfig = `
initial = "Loading"
order = ["Loading", "Matchmaking", "InGame"]

[states.Loading]
on_enter = [
    { action = "Log", message = "loading assets" },
    { action = "LoadAssets" },
]
transitions = [
    { trigger = "Tick", target = "Matchmaking", guard = "AssetsReady" },
]

[states.Matchmaking]
on_enter = [
    { action = "Log", message = "waiting for peers" },
    { action = "StartSession" },
]
transitions = [
    { trigger = "synchronized", target = "InGame", guard = "SessionReady" },
    { trigger = "Tick", target = "InGame", guard = "SessionReady" },
]

[states.InGame]
on_enter = [
    { action = "Log", message = "match started" },
    { action = "StartMatch" },
]
`
