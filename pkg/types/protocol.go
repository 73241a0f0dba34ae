package types

// Client -> Server (websocket, JSON envelope with "type")
//
// join:
//   debateId: string
//
// submitContribution:
//   debateId, authorId, authorName, side, content: string
//   -> ack { status: "ok" | "error", error?, contribution? }
//
// reactToContribution:
//   contributionId, debateId: string
//   reaction: "like" | "dislike"
//   -> ack { status, error?, contribution? }
//
// awardContribution:
//   contributionId, debateId, award: string
//   -> ack { status, error?, contribution? }
//
// removeUser:
//   debateId, userId: string
//   -> ack { status, error?, debate? }   // debate includes contributions + participants
//
// raiseHand:
//   debateId, authorId: string
//   -> ack { status: "ok" | "alreadyRaised" | "error", raiseHand? }
//
// approveSpeak:
//   raiseHandId, debateId: string
//   -> ack { status, raiseHand? }
//
// clearRaiseHand:
//   raiseHandId, debateId: string
//   -> ack { status, error? }

// Server -> Client
//
// debateState (join reply, sender only):
//   state: { debate, contributions: [...], raiseHands: [...] }
//
// newContribution:    contribution
// updateContribution: contribution   // after react or award
// updateDebate:       debate         // after removeUser, related included
// newRaiseHand:       raiseHand
// updateRaiseHand:    raiseHand      // isSelected flipped by approveSpeak
// removeRaiseHand:    raiseHandId
//
// error:
//   error: string   // malformed frame or unknown event type
//
// Broadcasts are emitted only for mutations that persisted; a failed
// mutation is visible to nobody but the sender (via its ack). Delivery
// is best effort: a subscriber that disconnects mid-broadcast misses
// the delta and recovers it from debateState on the next join.
